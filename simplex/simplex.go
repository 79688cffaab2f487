package simplex

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// colKind tags tableau columns; artificial columns are blocked in phase 2.
type colKind uint8

const (
	colStructural colKind = iota
	colSlack
	colArtificial
)

// prepared is the bound-shifted, fixed-variable-free form of a Problem.
type prepared struct {
	n      int         // original variable count
	value  []float64   // lower bound (shift) or fixed value per original variable
	col    []int       // original variable → structural column, −1 when fixed
	free   []int       // structural column → original variable
	rows   [][]float64 // dense rows over structural columns
	senses []Sense
	rhs    []float64
	maxRHS float64
}

// tableau is a dense simplex tableau in canonical form: every basic column is
// a unit vector. The last column of a holds the right-hand side; obj holds the
// reduced costs with obj[cols] = −z.
type tableau struct {
	m, cols    int
	a          *mat.Dense
	obj        []float64
	basis      []int
	kind       []colKind
	blocked    []bool
	opts       Options
	iters      int
	maxIters   int
	bland      bool
	degenerate int
}

// Solve runs the two-phase simplex on p and returns an optimal vertex.
//
// Errors:
//   - ErrDimensionMismatch, ErrInvalidBounds, ErrInvalidProblem on malformed input;
//   - ErrInfeasible when rows and bounds admit no point;
//   - ErrUnbounded when the objective has no finite minimum;
//   - ErrIterationLimit when opts.MaxIterations pivots were not enough.
//
// Determinism: identical input and options give identical output.
func Solve(p Problem, opts Options) (Result, error) {
	opts = normalizeOptions(opts)

	pp, err := prepare(p, opts)
	if err != nil {
		return Result{}, err
	}

	// No rows left: every free column is unbounded above and at its shifted zero.
	if len(pp.rows) == 0 {
		var j int
		for j = 0; j < len(pp.free); j++ {
			if p.Objective[pp.free[j]] < -opts.PivotTol {
				return Result{}, ErrUnbounded
			}
		}

		return pp.result(p, make([]float64, len(pp.free)), 0), nil
	}

	t := newTableau(pp, opts)

	// Phase 1: drive the artificial sum to zero.
	if t.hasArtificial() {
		c1 := make([]float64, t.cols)
		var j int
		for j = 0; j < t.cols; j++ {
			if t.kind[j] == colArtificial {
				c1[j] = 1
			}
		}
		t.priceOut(c1)
		if err = t.optimize(); err != nil {
			return Result{}, err
		}
		if w := -t.obj[t.cols]; w > opts.FeasTol*(1+pp.maxRHS) {
			return Result{}, fmt.Errorf("%w: phase-1 residual %.3g", ErrInfeasible, w)
		}
		t.evictArtificials()
	}

	// Phase 2: real objective over structural columns.
	c2 := make([]float64, t.cols)
	var k int
	for k = 0; k < len(pp.free); k++ {
		c2[k] = p.Objective[pp.free[k]]
	}
	t.priceOut(c2)
	if err = t.optimize(); err != nil {
		return Result{}, err
	}

	return pp.result(p, t.structuralValues(len(pp.free)), t.iters), nil
}

// normalizeOptions fills zero-valued knobs with defaults.
func normalizeOptions(o Options) Options {
	if o.PivotTol <= 0 {
		o.PivotTol = DefaultPivotTol
	}
	if o.FeasTol <= 0 {
		o.FeasTol = DefaultFeasTol
	}
	if o.DegenerateRun <= 0 {
		o.DegenerateRun = DefaultDegenerateRun
	}

	return o
}

// prepare validates p, shifts lower bounds, substitutes fixed variables and
// densifies the rows over the remaining (structural) columns. Finite upper
// bounds become extra "≤" rows. Rows left without any structural coefficient
// are checked for constant feasibility and dropped.
//
// Complexity: O(n + rows·n).
func prepare(p Problem, opts Options) (prepared, error) {
	var n = len(p.Objective)
	if p.Lower != nil && len(p.Lower) != n {
		return prepared{}, fmt.Errorf("%w: len(Lower)=%d, want %d", ErrDimensionMismatch, len(p.Lower), n)
	}
	if p.Upper != nil && len(p.Upper) != n {
		return prepared{}, fmt.Errorf("%w: len(Upper)=%d, want %d", ErrDimensionMismatch, len(p.Upper), n)
	}

	pp := prepared{
		n:     n,
		value: make([]float64, n),
		col:   make([]int, n),
	}

	type upperRow struct {
		col   int
		bound float64
	}
	var (
		uppers []upperRow
		j      int
		lb, ub float64
	)
	for j = 0; j < n; j++ {
		if c := p.Objective[j]; math.IsNaN(c) || math.IsInf(c, 0) {
			return prepared{}, fmt.Errorf("%w: objective[%d] = %v", ErrInvalidProblem, j, c)
		}
		lb, ub = 0, math.Inf(1)
		if p.Lower != nil {
			lb = p.Lower[j]
		}
		if p.Upper != nil {
			ub = p.Upper[j]
		}
		if math.IsNaN(lb) || math.IsInf(lb, 0) || math.IsNaN(ub) || math.IsInf(ub, -1) {
			return prepared{}, fmt.Errorf("%w: x[%d] in [%v, %v]", ErrInvalidBounds, j, lb, ub)
		}
		if ub < lb-opts.FeasTol {
			return prepared{}, fmt.Errorf("%w: x[%d] has lower %v above upper %v", ErrInfeasible, j, lb, ub)
		}
		pp.value[j] = lb
		if ub-lb <= opts.FeasTol {
			pp.col[j] = -1

			continue
		}
		pp.col[j] = len(pp.free)
		pp.free = append(pp.free, j)
		if !math.IsInf(ub, 1) {
			uppers = append(uppers, upperRow{col: pp.col[j], bound: ub - lb})
		}
	}

	var (
		nFree = len(pp.free)
		r     int
		row   Row
		term  Term
	)
	for r, row = range p.Rows {
		if row.Sense != LessEqual && row.Sense != Equal && row.Sense != GreaterEqual {
			return prepared{}, fmt.Errorf("%w: row %d has unknown sense %d", ErrInvalidProblem, r, int(row.Sense))
		}
		if math.IsNaN(row.RHS) || math.IsInf(row.RHS, 0) {
			return prepared{}, fmt.Errorf("%w: row %d rhs = %v", ErrInvalidProblem, r, row.RHS)
		}
		dense := make([]float64, nFree)
		rhs := row.RHS
		for _, term = range row.Terms {
			if term.Var < 0 || term.Var >= n {
				return prepared{}, fmt.Errorf("%w: row %d references x[%d]", ErrDimensionMismatch, r, term.Var)
			}
			if math.IsNaN(term.Coeff) || math.IsInf(term.Coeff, 0) {
				return prepared{}, fmt.Errorf("%w: row %d coefficient %v", ErrInvalidProblem, r, term.Coeff)
			}
			rhs -= term.Coeff * pp.value[term.Var]
			if c := pp.col[term.Var]; c >= 0 {
				dense[c] += term.Coeff
			}
		}
		if floats.Norm(dense, math.Inf(1)) <= opts.PivotTol {
			if !constantHolds(row.Sense, rhs, opts.FeasTol) {
				return prepared{}, fmt.Errorf("%w: row %d reduces to 0 %s %v", ErrInfeasible, r, row.Sense, rhs)
			}

			continue
		}
		pp.appendRow(dense, row.Sense, rhs)
	}

	var u upperRow
	for _, u = range uppers {
		dense := make([]float64, nFree)
		dense[u.col] = 1
		pp.appendRow(dense, LessEqual, u.bound)
	}

	return pp, nil
}

func (pp *prepared) appendRow(dense []float64, s Sense, rhs float64) {
	pp.rows = append(pp.rows, dense)
	pp.senses = append(pp.senses, s)
	pp.rhs = append(pp.rhs, rhs)
	if a := math.Abs(rhs); a > pp.maxRHS {
		pp.maxRHS = a
	}
}

// constantHolds reports whether 0 {sense} rhs holds within tol.
func constantHolds(s Sense, rhs, tol float64) bool {
	switch s {
	case LessEqual:
		return rhs >= -tol
	case GreaterEqual:
		return rhs <= tol
	default:
		return math.Abs(rhs) <= tol
	}
}

// result maps structural values back to the original variable space.
func (pp *prepared) result(p Problem, xs []float64, iters int) Result {
	x := make([]float64, pp.n)
	var j int
	for j = 0; j < pp.n; j++ {
		x[j] = pp.value[j]
		if c := pp.col[j]; c >= 0 {
			x[j] += xs[c]
		}
	}

	return Result{Objective: floats.Dot(p.Objective, x), X: x, Iterations: iters}
}

// newTableau lays out structural, slack and artificial columns. Rows are
// sign-normalised so that rhs ≥ 0; a slack with coefficient +1 starts basic,
// every other row gets an artificial column.
func newTableau(pp prepared, opts Options) *tableau {
	var (
		m       = len(pp.rows)
		nFree   = len(pp.free)
		nSlack  int
		nArt    int
		r       int
		sign    = make([]float64, m) // row multiplier after normalisation
		slackAt = make([]int, m)     // slack column per row, −1 for equalities
		needArt = make([]bool, m)
	)
	for r = 0; r < m; r++ {
		sign[r] = 1
		if pp.rhs[r] < 0 {
			sign[r] = -1
		}
		slackAt[r] = -1
		slackCoeff := 0.0
		switch pp.senses[r] {
		case LessEqual:
			slackAt[r] = nFree + nSlack
			slackCoeff = 1
			nSlack++
		case GreaterEqual:
			slackAt[r] = nFree + nSlack
			slackCoeff = -1
			nSlack++
		}
		if slackCoeff*sign[r] <= 0 {
			needArt[r] = true
			nArt++
		}
	}

	cols := nFree + nSlack + nArt
	t := &tableau{
		m:       m,
		cols:    cols,
		a:       mat.NewDense(m, cols+1, nil),
		obj:     make([]float64, cols+1),
		basis:   make([]int, m),
		kind:    make([]colKind, cols),
		blocked: make([]bool, cols),
		opts:    opts,
		bland:   opts.Bland,
	}
	t.maxIters = opts.MaxIterations
	if t.maxIters <= 0 {
		t.maxIters = 50 * (m + cols)
		if t.maxIters < 10000 {
			t.maxIters = 10000
		}
	}

	var (
		j      int
		artCol = nFree + nSlack
	)
	for j = nFree; j < nFree+nSlack; j++ {
		t.kind[j] = colSlack
	}
	for j = nFree + nSlack; j < cols; j++ {
		t.kind[j] = colArtificial
	}

	for r = 0; r < m; r++ {
		row := t.a.RawRowView(r)
		for j = 0; j < nFree; j++ {
			row[j] = sign[r] * pp.rows[r][j]
		}
		row[cols] = sign[r] * pp.rhs[r]
		if s := slackAt[r]; s >= 0 {
			if pp.senses[r] == LessEqual {
				row[s] = sign[r]
			} else {
				row[s] = -sign[r]
			}
		}
		if needArt[r] {
			row[artCol] = 1
			t.basis[r] = artCol
			artCol++
		} else {
			t.basis[r] = slackAt[r]
		}
	}

	return t
}

func (t *tableau) hasArtificial() bool {
	var j int
	for j = 0; j < t.cols; j++ {
		if t.kind[j] == colArtificial {
			return true
		}
	}

	return false
}

// priceOut loads the reduced costs of objective c for the current basis.
func (t *tableau) priceOut(c []float64) {
	var i int
	for i = range t.obj {
		t.obj[i] = 0
	}
	copy(t.obj, c)
	for i = 0; i < t.m; i++ {
		if ck := c[t.basis[i]]; ck != 0 {
			floats.AddScaled(t.obj, -ck, t.a.RawRowView(i))
		}
	}
}

// optimize pivots until no eligible column has a negative reduced cost.
func (t *tableau) optimize() error {
	var q, r int
	for {
		q = t.entering()
		if q < 0 {
			return nil
		}
		r = t.leaving(q)
		if r < 0 {
			return ErrUnbounded
		}
		if t.iters >= t.maxIters {
			return fmt.Errorf("%w: %d pivots", ErrIterationLimit, t.iters)
		}
		t.trackDegeneracy(r)
		t.pivot(r, q)
		t.iters++
	}
}

// entering picks the entering column: smallest eligible index under Bland's
// rule, most negative reduced cost (smallest index on ties) under Dantzig's.
func (t *tableau) entering() int {
	var (
		tol  = -t.opts.PivotTol
		j    int
		best = -1
		val  = tol
	)
	for j = 0; j < t.cols; j++ {
		if t.blocked[j] || t.obj[j] >= val {
			continue
		}
		if t.bland {
			return j
		}
		best, val = j, t.obj[j]
	}

	return best
}

// leaving runs the minimum-ratio test on column q. Ties are broken by the
// smallest basic column index, which is what Bland's rule requires.
func (t *tableau) leaving(q int) int {
	var (
		r     = -1
		best  float64
		i     int
		ratio float64
	)
	for i = 0; i < t.m; i++ {
		row := t.a.RawRowView(i)
		if row[q] <= t.opts.PivotTol {
			continue
		}
		ratio = row[t.cols] / row[q]
		switch {
		case r < 0 || ratio < best-t.opts.PivotTol:
			r, best = i, ratio
		case ratio <= best+t.opts.PivotTol && t.basis[i] < t.basis[r]:
			r = i
			if ratio < best {
				best = ratio
			}
		}
	}

	return r
}

// trackDegeneracy switches to Bland's rule after a run of zero-step pivots.
func (t *tableau) trackDegeneracy(r int) {
	if t.bland {
		return
	}
	if t.a.At(r, t.cols) <= t.opts.PivotTol {
		t.degenerate++
		if t.degenerate >= t.opts.DegenerateRun {
			t.bland = true
		}

		return
	}
	t.degenerate = 0
}

// pivot makes column q basic in row r.
func (t *tableau) pivot(r, q int) {
	rowR := t.a.RawRowView(r)
	floats.Scale(1/rowR[q], rowR)
	rowR[q] = 1
	t.clampRHS(rowR)

	var i int
	for i = 0; i < t.m; i++ {
		if i == r {
			continue
		}
		row := t.a.RawRowView(i)
		if f := row[q]; f != 0 {
			floats.AddScaled(row, -f, rowR)
			row[q] = 0
			t.clampRHS(row)
		}
	}
	if f := t.obj[q]; f != 0 {
		floats.AddScaled(t.obj, -f, rowR)
		t.obj[q] = 0
	}
	t.basis[r] = q
}

// clampRHS snaps round-off negatives of the right-hand side back to zero.
func (t *tableau) clampRHS(row []float64) {
	if v := row[t.cols]; v < 0 && v > -t.opts.FeasTol {
		row[t.cols] = 0
	}
}

// evictArtificials pivots zero-level artificial columns out of the basis
// after phase 1 and blocks every artificial column. A row whose
// non-artificial entries are all zero is redundant and keeps its artificial
// basic at zero.
func (t *tableau) evictArtificials() {
	var i, j int
	for i = 0; i < t.m; i++ {
		if t.kind[t.basis[i]] != colArtificial {
			continue
		}
		row := t.a.RawRowView(i)
		for j = 0; j < t.cols; j++ {
			if t.kind[j] != colArtificial && math.Abs(row[j]) > t.opts.PivotTol {
				t.pivot(i, j)
				t.iters++

				break
			}
		}
	}
	for j = 0; j < t.cols; j++ {
		if t.kind[j] == colArtificial {
			t.blocked[j] = true
		}
	}
}

// structuralValues reads the basic solution for the first nFree columns.
func (t *tableau) structuralValues(nFree int) []float64 {
	xs := make([]float64, nFree)
	var i, k int
	for i = 0; i < t.m; i++ {
		k = t.basis[i]
		if k < nFree {
			if v := t.a.At(i, t.cols); v > 0 {
				xs[k] = v
			}
		}
	}

	return xs
}
