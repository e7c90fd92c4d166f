// Package packet owns the packet tree model and the recursive decoder.
//
// Ownership boundary:
// - packet header, literal and operator framing
// - decode options and structural validation
// - human-readable tree dumps
package packet
