package models

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Scale умножает обе координаты на один коэффициент.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// ============================================================
// Drawing entities
// ============================================================

type Kind int

const (
	KindUnknown Kind = iota
	KindSegment
	KindLightPolyline
	KindHeavyPolyline
)

func (k Kind) String() string {
	switch k {
	case KindSegment:
		return "LINE"
	case KindLightPolyline:
		return "LWPOLYLINE"
	case KindHeavyPolyline:
		return "POLYLINE"
	default:
		return "UNKNOWN"
	}
}

// IsPolyline сообщает, является ли вид одной из разновидностей полилинии.
func (k Kind) IsPolyline() bool {
	return k == KindLightPolyline || k == KindHeavyPolyline
}

// Entity - элемент чертежа. Ошибка чтения конкретного элемента
// возвращается из Points, остальные элементы это не затрагивает.
type Entity interface {
	Kind() Kind
	Layer() string
	Points() ([]Point, error)
	Closed() bool
}

// closedFlag - бит 1 группового кода 70 у LWPOLYLINE/POLYLINE.
const closedFlag = 1

// Segment - LINE: ровно две точки.
type Segment struct {
	LayerName string
	Start     Point
	End       Point
	Err       error
}

func (s *Segment) Kind() Kind    { return KindSegment }
func (s *Segment) Layer() string { return s.LayerName }
func (s *Segment) Closed() bool  { return false }

func (s *Segment) Points() ([]Point, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return []Point{s.Start, s.End}, nil
}

// LightPolyline - LWPOLYLINE, вершины хранятся в самой записи.
type LightPolyline struct {
	LayerName string
	Vertices  []Point
	Flags     int
	Err       error
}

func (p *LightPolyline) Kind() Kind    { return KindLightPolyline }
func (p *LightPolyline) Layer() string { return p.LayerName }
func (p *LightPolyline) Closed() bool  { return p.Flags&closedFlag != 0 }

func (p *LightPolyline) Points() ([]Point, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return append([]Point(nil), p.Vertices...), nil
}

// HeavyPolyline - POLYLINE с последовательностью VERTEX … SEQEND.
type HeavyPolyline struct {
	LayerName string
	Vertices  []Point
	Flags     int
	Err       error
}

func (p *HeavyPolyline) Kind() Kind    { return KindHeavyPolyline }
func (p *HeavyPolyline) Layer() string { return p.LayerName }
func (p *HeavyPolyline) Closed() bool  { return p.Flags&closedFlag != 0 }

func (p *HeavyPolyline) Points() ([]Point, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return append([]Point(nil), p.Vertices...), nil
}

// Unsupported - любой другой тип (CIRCLE, TEXT, INSERT, …).
type Unsupported struct {
	Type      string
	LayerName string
}

func (u *Unsupported) Kind() Kind               { return KindUnknown }
func (u *Unsupported) Layer() string            { return u.LayerName }
func (u *Unsupported) Closed() bool             { return false }
func (u *Unsupported) Points() ([]Point, error) { return nil, nil }

// ============================================================
// Layer classification
// ============================================================

// LayerSet - набор слоёв «пола»: замкнутые полилинии на них - зоны навигации.
type LayerSet map[string]struct{}

func NewLayerSet(names ...string) LayerSet {
	set := make(LayerSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func (s LayerSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// ============================================================
// Feature properties
// ============================================================

const (
	FeatureWall    = "wall"
	FeatureNavArea = "nav_area"
	FeatureNavNode = "nav_node"
	FeatureNavEdge = "nav_edge"
	FeatureRoute   = "route_final"
)
