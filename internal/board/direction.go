package board

// Direction is a (rank, file) step on the board.
type Direction struct {
	DRank int
	DFile int
}

// Compass directions.
var (
	North     = Direction{1, 0}
	NorthEast = Direction{1, 1}
	East      = Direction{0, 1}
	SouthEast = Direction{-1, 1}
	South     = Direction{-1, 0}
	SouthWest = Direction{-1, -1}
	West      = Direction{0, -1}
	NorthWest = Direction{1, -1}
)

// OrthogonalDirections are the rook rays.
var OrthogonalDirections = []Direction{East, West, North, South}

// DiagonalDirections are the bishop rays.
var DiagonalDirections = []Direction{NorthEast, SouthEast, SouthWest, NorthWest}

// KnightDirections are the eight knight jumps.
var KnightDirections = []Direction{
	{2, 1},   // NNE
	{2, -1},  // NNW
	{-2, 1},  // SSE
	{-2, -1}, // SSW
	{1, 2},   // ENE
	{-1, 2},  // ESE
	{1, -2},  // WNW
	{-1, -2}, // WSW
}

// KingDirections are the eight unit steps.
var KingDirections = []Direction{
	North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest,
}
