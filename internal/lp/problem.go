package lp

// Var is an index into a Problem's variable table.
type Var int

// Term is coefficient * variable.
type Term struct {
	Var  Var
	Coef float64
}

// Expr is a linear expression, the sum of its terms.
type Expr []Term

// Op is a constraint comparison operator.
type Op int

const (
	Eq Op = iota
	LE
	GE
)

func (o Op) String() string {
	switch o {
	case Eq:
		return "="
	case LE:
		return "<="
	case GE:
		return ">="
	}
	return "?"
}

// Constraint is a named linear constraint: Expr Op RHS.
type Constraint struct {
	Name string
	Expr Expr
	Op   Op
	RHS  float64
}

// Problem is a continuous linear program over nonnegative variables.
// All variables are implicitly bounded below at 0; upper bounds are
// expressed as ordinary constraints. The objective is maximized.
type Problem struct {
	name      string
	varNames  []string
	varIndex  map[string]Var
	objective map[Var]float64
	cons      []Constraint
}

func NewProblem(name string) *Problem {
	return &Problem{
		name:      name,
		varIndex:  make(map[string]Var),
		objective: make(map[Var]float64),
	}
}

func (p *Problem) Name() string { return p.name }

// Var returns the variable with the given name, declaring it if new.
func (p *Problem) Var(name string) Var {
	if v, ok := p.varIndex[name]; ok {
		return v
	}
	v := Var(len(p.varNames))
	p.varNames = append(p.varNames, name)
	p.varIndex[name] = v
	return v
}

// VarName returns the declared name of v.
func (p *Problem) VarName(v Var) string { return p.varNames[v] }

func (p *Problem) NumVars() int        { return len(p.varNames) }
func (p *Problem) NumConstraints() int { return len(p.cons) }

// Maximize adds e to the objective. Repeated calls accumulate, so the
// objective can be assembled term group by term group.
func (p *Problem) Maximize(e Expr) {
	for _, t := range e {
		p.objective[t.Var] += t.Coef
	}
}

// Add appends a named constraint. Terms referencing the same variable are
// summed during matrix assembly. An empty expression is rejected at solve
// time rather than here.
func (p *Problem) Add(name string, e Expr, op Op, rhs float64) {
	p.cons = append(p.cons, Constraint{Name: name, Expr: e, Op: op, RHS: rhs})
}

// Constraints returns the constraint list for inspection.
func (p *Problem) Constraints() []Constraint { return p.cons }

// Solution is an optimal feasible point for a Problem.
type Solution struct {
	problem   *Problem
	values    []float64
	objective float64
}

// Value returns the optimal value of v.
func (s *Solution) Value(v Var) float64 { return s.values[v] }

// ValueOf looks a variable up by name. The second return is false when
// the problem never declared such a variable.
func (s *Solution) ValueOf(name string) (float64, bool) {
	v, ok := s.problem.varIndex[name]
	if !ok {
		return 0, false
	}
	return s.values[v], true
}

// Objective returns the maximized objective value.
func (s *Solution) Objective() float64 { return s.objective }
