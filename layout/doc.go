// Package layout recovers a discrete row/column grid from the unordered bag
// of positioned words on a page, and renders that grid as fixed-width text.
//
// The pipeline is: group words into rows and cells by proximity (GroupRows),
// fuse visually adjacent cells (MergeClose), snap the surviving coordinates
// to bins and assign grid indices (BuildGrid), then render one text line per
// row index (Render). Every stage is a pure function of one page's words.
package layout
