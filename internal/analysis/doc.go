// Package analysis computes the data behind the dashboard views: the dataset
// overview, the class balance, the amount distribution under a threshold and
// the hourly transaction counts.
//
// Every function is pure and reads the shared *dataset.Table without mutating
// it, so views can be computed concurrently for different requests.
package analysis
