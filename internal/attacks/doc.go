// Package attacks computes relevant occupancy masks and attack sets for the
// four non-pawn piece classes on an otherwise empty board.
//
// Sliding pieces (rook, bishop) cast rays that stop on the first blocker,
// which is itself attacked. Jumping pieces (knight, king) have a fixed
// attack set per square. All functions are pure.
package attacks
