// Package model provides final-step estimators for pipelines.
//
// Key constructs:
// - NearestCentroid: distance-to-centroid classifier exposing the full
//   prediction surface (predict, probabilities, decision scores, accuracy)
// - KMeans: clusterer over the bugra/kmeans backend with a fit-predict
//   surface
package model
