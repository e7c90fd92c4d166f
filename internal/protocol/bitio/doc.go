// Package bitio owns the transmission byte buffer and the bit cursor used
// by the packet decoder.
//
// Ownership boundary:
// - hex transmission parsing
// - fixed-width MSB-first bit reads with atomic failure
package bitio
