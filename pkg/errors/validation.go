package errors

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Bounds shared by the CLI, configuration and HTTP API.
const (
	// MinPatternSize is the smallest supported pattern side length. Smaller
	// grids put the center's neighbors on the boundary, which the generator
	// cannot isolate from a tile's external sockets.
	MinPatternSize = 5

	// MaxPatternSize bounds catalog enumeration and memory per bilayer.
	MaxPatternSize = 15

	// MaxViewportCells bounds a single rendered viewport (width * height).
	MaxViewportCells = 1 << 16

	// MaxScale bounds the zoom level of a viewport.
	MaxScale = 12

	// MaxPosition bounds the absolute value of a cell position. The root
	// tile covering any such position stays below [MaxHeight] for every
	// supported pattern size.
	MaxPosition = 1 << 48
)

// MaxHeight returns the tallest tile height supported for pattern size n:
// the largest h such that the side N^(h+1) of a root tile, and of its parent,
// fits in an int64. It is 25 for N=5 and 14 for N=15.
func MaxHeight(n int) int {
	if n < 2 {
		return 0
	}
	h, side := -2, int64(1)
	for side <= math.MaxInt64/int64(n) {
		side *= int64(n)
		h++
	}
	return h
}

// ValidateHeight validates the height of a coordinate in a maze of pattern size n.
func ValidateHeight(n, height int) error {
	if height < 0 {
		return New(ErrCodeMalformedCoordinate, "negative height %d", height)
	}
	if m := MaxHeight(n); height > m {
		return New(ErrCodeMalformedCoordinate, "height %d exceeds maximum %d", height, m)
	}
	return nil
}

// ValidatePosition validates an absolute cell position.
func ValidatePosition(x, y int) error {
	if x < -MaxPosition || x > MaxPosition || y < -MaxPosition || y > MaxPosition {
		return New(ErrCodeInvalidInput, "position (%d,%d) out of range (max %d)", x, y, MaxPosition)
	}
	return nil
}

// ValidatePatternSize validates the side length of a square pattern.
//
// The size must be odd so the pattern has a center cell and sockets at even
// offsets along every edge, and at least [MinPatternSize].
func ValidatePatternSize(n int) error {
	if n < MinPatternSize {
		return New(ErrCodeInvalidConfig, "pattern size must be at least %d, got %d", MinPatternSize, n)
	}
	if n > MaxPatternSize {
		return New(ErrCodeInvalidConfig, "pattern size must be at most %d, got %d", MaxPatternSize, n)
	}
	if n%2 == 0 {
		return New(ErrCodeInvalidConfig, "pattern size must be odd, got %d", n)
	}
	return nil
}

// ParseSeed parses a maze seed. Seeds are unsigned 32-bit integers and may be
// written in decimal or with a 0x prefix.
func ParseSeed(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, New(ErrCodeInvalidInput, "seed cannot be empty")
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidInput, err, "invalid seed %q", s)
	}
	return uint32(v), nil
}

// ValidateStepBudget validates the number of generation requests processed per tick.
func ValidateStepBudget(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidConfig, "step budget must be positive, got %d", n)
	}
	return nil
}

// ValidateViewport validates the dimensions and zoom scale of a viewport.
func ValidateViewport(width, height, scale int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidInput, "viewport must have positive size, got %dx%d", width, height)
	}
	if width > math.MaxInt32/height || width*height > MaxViewportCells {
		return New(ErrCodeInvalidInput, "viewport too large (max %d cells)", MaxViewportCells)
	}
	if scale < 0 || scale > MaxScale {
		return New(ErrCodeInvalidInput, "scale must be between 0 and %d, got %d", MaxScale, scale)
	}
	return nil
}

// ValidateCatalogPath validates a pattern catalog path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Extension must be .json, .yaml or .yml
func ValidateCatalogPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "catalog path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "catalog path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "catalog path contains invalid characters")
		}
	}

	lower := strings.ToLower(path)
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		if strings.HasSuffix(lower, ext) {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "catalog must be a .json, .yaml or .yml file: %q", path)
}

// ValidateMongoURI validates a MongoDB connection string.
func ValidateMongoURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidConfig, "mongo URI cannot be empty")
	}
	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		return New(ErrCodeInvalidConfig, "mongo URI must use mongodb or mongodb+srv scheme")
	}
	return nil
}
