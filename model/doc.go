// Package model defines the positional data structures shared by the
// reconstruction pipelines.
//
// All coordinates are in PDF points with the origin at the top-left corner
// of the page: Top increases downward, X increases to the right. Words and
// cells are immutable once created; the layout package only ever produces
// new values from them.
package model
