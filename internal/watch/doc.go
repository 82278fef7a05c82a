// Package watch provides live reload for projgrid. It monitors the dataset
// files for changes, debounces rapid events, re-runs the filter pipeline,
// and reports how the matched projects changed between generations.
package watch
