// Package diffusion implements Perona–Malik anisotropic diffusion over
// scalar and vector grids.
//
// The solver keeps two float64 buffers padded by one ghost cell on every
// side. Before each step the ghosts of the current buffer are refreshed by
// replicating the nearest interior cell (a zero-gradient boundary), the step
// reads only the current buffer and writes only the next one, and the two are
// swapped. A cell's update therefore never observes a value written in the
// same iteration. Lanes of vector elements diffuse independently.
package diffusion

import (
	"math"

	"github.com/pkg/errors"

	"github.com/simmplecoder/flash/internal/grid"
)

// Scheme selects the neighbour set of a diffusion step.
type Scheme int

const (
	// FourNeighbour uses the north, south, east and west differences.
	FourNeighbour Scheme = 4
	// EightNeighbour adds the four diagonal differences at half weight.
	EightNeighbour Scheme = 8
)

func (s Scheme) String() string {
	switch s {
	case FourNeighbour:
		return "4-neighbour"
	case EightNeighbour:
		return "8-neighbour"
	default:
		return "unknown"
	}
}

type offset struct {
	dr, dc int
	weight float64
}

var (
	axisOffsets = []offset{{-1, 0, 1}, {1, 0, 1}, {0, 1, 1}, {0, -1, 1}}
	diagOffsets = []offset{{-1, 1, 0.5}, {-1, -1, 0.5}, {1, 1, 0.5}, {1, -1, 0.5}}
)

func (s Scheme) offsets() []offset {
	if s == EightNeighbour {
		return append(append([]offset{}, axisOffsets...), diagOffsets...)
	}
	return axisOffsets
}

// StabilityBound is the largest time step the scheme tolerates: the inverse
// of the sum of its neighbour weights.
func (s Scheme) StabilityBound() float64 {
	total := 0.0
	for _, o := range s.offsets() {
		total += o.weight
	}
	return 1 / total
}

// DefaultDeltaT is the time step used when Options.DeltaT is zero.
func (s Scheme) DefaultDeltaT() float64 {
	if s == EightNeighbour {
		return 1.0 / 7
	}
	return 0.25
}

// Options configures a Solver.
type Options struct {
	// Kappa is the edge sensitivity. Smaller values preserve edges more.
	Kappa float64
	// DeltaT is the time step; zero selects the scheme default.
	DeltaT float64
	// Scheme defaults to FourNeighbour.
	Scheme Scheme
}

func (o Options) normalize() (Options, error) {
	if o.Scheme == 0 {
		o.Scheme = FourNeighbour
	}
	if o.Scheme != FourNeighbour && o.Scheme != EightNeighbour {
		return o, errors.Wrapf(grid.ErrInvalidArgument, "diffusion: unknown scheme %d", int(o.Scheme))
	}
	if !(o.Kappa > 0) || math.IsInf(o.Kappa, 0) {
		return o, errors.Wrapf(grid.ErrInvalidArgument, "diffusion: kappa %v must be positive and finite", o.Kappa)
	}
	if o.DeltaT == 0 {
		o.DeltaT = o.Scheme.DefaultDeltaT()
	}
	if !(o.DeltaT > 0) || o.DeltaT > o.Scheme.StabilityBound() {
		return o, errors.Wrapf(grid.ErrInvalidArgument, "diffusion: time step %v outside (0, %v] for %s",
			o.DeltaT, o.Scheme.StabilityBound(), o.Scheme)
	}
	return o, nil
}

// Solver is a diffusion run in progress.
type Solver struct {
	opts       Options
	offsets    []offset
	cur, next  *grid.Grid[float64]
	rows, cols int
	iterations int
}

// New copies g into the interior of a padded buffer. Ghost cells are filled
// on the first step.
func New[T grid.Number](g *grid.Grid[T], opts Options) (*Solver, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	rows, cols := g.Rows(), g.Columns()
	cur, err := grid.NewVector[float64](rows+2, cols+2, g.Lanes())
	if err != nil {
		return nil, err
	}
	next, _ := grid.NewVector[float64](rows+2, cols+2, g.Lanes())
	interior, err := cur.Sub(1, 1, rows, cols)
	if err != nil {
		return nil, err
	}
	interior.CopyFrom(grid.Convert[float64](g))

	return &Solver{
		opts:    opts,
		offsets: opts.Scheme.offsets(),
		cur:     cur,
		next:    next,
		rows:    rows,
		cols:    cols,
	}, nil
}

// Options returns the effective options, defaults applied.
func (s *Solver) Options() Options { return s.opts }

// Iterations returns the number of completed steps.
func (s *Solver) Iterations() int { return s.iterations }

// refreshGhosts replicates border rows and columns of the interior into the
// ghost ring of the current buffer, then the corners from their diagonal
// interior neighbours.
func (s *Solver) refreshGhosts() {
	g := s.cur
	R, C := s.rows, s.cols
	for c := 1; c <= C; c++ {
		copy(g.Cell(0, c), g.Cell(1, c))
		copy(g.Cell(R+1, c), g.Cell(R, c))
	}
	for r := 1; r <= R; r++ {
		copy(g.Cell(r, 0), g.Cell(r, 1))
		copy(g.Cell(r, C+1), g.Cell(r, C))
	}
	copy(g.Cell(0, 0), g.Cell(1, 1))
	copy(g.Cell(0, C+1), g.Cell(1, C))
	copy(g.Cell(R+1, 0), g.Cell(R, 1))
	copy(g.Cell(R+1, C+1), g.Cell(R, C))
}

// Step performs one diffusion iteration.
func (s *Solver) Step() {
	if s.rows == 0 || s.cols == 0 {
		s.iterations++
		return
	}
	s.refreshGhosts()
	kappa, dt := s.opts.Kappa, s.opts.DeltaT
	for r := 1; r <= s.rows; r++ {
		for c := 1; c <= s.cols; c++ {
			here := s.cur.Cell(r, c)
			out := s.next.Cell(r, c)
			for l, v := range here {
				flux := 0.0
				for _, o := range s.offsets {
					delta := s.cur.Cell(r+o.dr, c+o.dc)[l] - v
					q := delta / kappa
					flux += o.weight * math.Exp(-q*q) * delta
				}
				out[l] = v + dt*flux
			}
		}
	}
	s.cur, s.next = s.next, s.cur
	s.iterations++
}

// Run performs n steps.
func (s *Solver) Run(n int) error {
	if n < 0 {
		return errors.Wrapf(grid.ErrInvalidArgument, "diffusion: iteration count %d", n)
	}
	for i := 0; i < n; i++ {
		s.Step()
	}
	return nil
}

// Result returns an owned copy of the current interior.
func (s *Solver) Result() *grid.Grid[float64] {
	interior, _ := s.cur.Sub(1, 1, s.rows, s.cols)
	return interior.Clone()
}

// Diffuse runs iterations steps over g and returns the float64 result.
// Zero iterations return g converted to float64.
func Diffuse[T grid.Number](g *grid.Grid[T], opts Options, iterations int) (*grid.Grid[float64], error) {
	s, err := New(g, opts)
	if err != nil {
		return nil, err
	}
	if err := s.Run(iterations); err != nil {
		return nil, err
	}
	return s.Result(), nil
}
