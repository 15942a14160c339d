package lut

import (
	"math"
	"strings"

	"github.com/jpfielding/dicomlut.go/pkg/dicom/module"
)

// Function is the response curve of a VOI LUT
type Function int

const (
	// Linear is the DICOM LINEAR function (C.11.2.1.2.1)
	Linear Function = iota
	// LinearExact is the DICOM LINEAR_EXACT function (C.11.2.1.3.2)
	LinearExact
	// Sigmoid is the DICOM SIGMOID function (C.11.2.1.3.1)
	Sigmoid
	// SigmoidNorm is a sigmoid rescaled to reach 0 and 1 at the window edges
	SigmoidNorm
	Log
	LogInv
	// Sequence stretches a VOI LUT Sequence table across the window
	Sequence
)

// logBase controls the curvature of Log and LogInv
const logBase = 10.0

var functionNames = map[Function]string{
	Linear:      "LINEAR",
	LinearExact: "LINEAR_EXACT",
	Sigmoid:     "SIGMOID",
	SigmoidNorm: "SIGMOID_NORM",
	Log:         "LOG",
	LogInv:      "LOG_INV",
	Sequence:    "SEQUENCE",
}

func (f Function) String() string {
	if s, ok := functionNames[f]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseFunction maps a VOI LUT Function value (or one of the extra curve names) to a Function
func ParseFunction(s string) (Function, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for f, name := range functionNames {
		if name == s {
			return f, true
		}
	}
	return Linear, false
}

// Functions lists the built in curves, Sequence excluded since it needs a table
func Functions() []Function {
	return []Function{Linear, LinearExact, Sigmoid, SigmoidNorm, Log, LogInv}
}

// Normalize places v in window coordinates: 0 at the lower window edge, 1 at the upper.
// Values outside the window fall outside [0,1]; Curve clamps the result.
func Normalize(f Function, v, level, window float64) float64 {
	if f == Linear {
		// DICOM LINEAR uses c-0.5 and w-1
		c, w := level-0.5, window-1
		if w <= 0 {
			if v <= c {
				return 0
			}
			return 1
		}
		return (v-c)/w + 0.5
	}
	if window <= 0 {
		if v < level {
			return 0
		}
		return 1
	}
	return (v-level)/window + 0.5
}

// Curve maps a normalized window position to a normalized output intensity in [0,1]
func Curve(f Function, x float64) float64 {
	switch f {
	case Sigmoid:
		return clamp01(sigmoid(x))
	case SigmoidNorm:
		x = clamp01(x)
		lo, hi := sigmoid(0), sigmoid(1)
		return clamp01((sigmoid(x) - lo) / (hi - lo))
	case Log:
		x = clamp01(x)
		return clamp01(math.Log1p((logBase-1)*x) / math.Log(logBase))
	case LogInv:
		x = clamp01(x)
		return clamp01((math.Pow(logBase, x) - 1) / (logBase - 1))
	default:
		return clamp01(x)
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-4*(x-0.5)))
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// Shape is a named response curve, optionally backed by a VOI LUT Sequence item
type Shape struct {
	Function    Function
	Explanation string
	LUT         *module.LUT
}

// NewShape wraps a built in function
func NewShape(f Function) Shape {
	return Shape{Function: f, Explanation: f.String()}
}

// SequenceShape wraps a VOI LUT Sequence item
func SequenceShape(l *module.LUT) Shape {
	explanation := l.Explanation
	if explanation == "" {
		explanation = Sequence.String()
	}
	return Shape{Function: Sequence, Explanation: explanation, LUT: l}
}

// ID identifies the shape in cache keys; sequence shapes hash their table
func (s Shape) ID() string {
	if s.Function == Sequence && s.LUT != nil {
		return SequenceID(s.LUT)
	}
	return ""
}

func (s Shape) String() string {
	if s.Explanation != "" {
		return s.Explanation
	}
	return s.Function.String()
}
