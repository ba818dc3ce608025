package geom

import "testing"

func TestRectAccessors(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 40, H: 60}

	if got := r.Right(); got != 50 {
		t.Errorf("Right() = %v, want 50", got)
	}
	if got := r.Top(); got != 80 {
		t.Errorf("Top() = %v, want 80", got)
	}
	if got := r.CenterX(); got != 30 {
		t.Errorf("CenterX() = %v, want 30", got)
	}
	if got := r.CenterY(); got != 50 {
		t.Errorf("CenterY() = %v, want 50", got)
	}
	if got := r.Center(); got != (Point{X: 30, Y: 50}) {
		t.Errorf("Center() = %v, want {30 50}", got)
	}
}

func TestRectInset(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		pad  float64
		want Rect
	}{
		{
			name: "regular inset",
			rect: Rect{X: 0, Y: 0, W: 100, H: 50},
			pad:  5,
			want: Rect{X: 5, Y: 5, W: 90, H: 40},
		},
		{
			name: "zero pad",
			rect: Rect{X: 10, Y: 10, W: 20, H: 20},
			pad:  0,
			want: Rect{X: 10, Y: 10, W: 20, H: 20},
		},
		{
			name: "pad exceeding half the height goes negative",
			rect: Rect{X: 0, Y: 0, W: 100, H: 8},
			pad:  5,
			want: Rect{X: 5, Y: 5, W: 90, H: -2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.Inset(tt.pad); got != tt.want {
				t.Errorf("Inset(%v) = %v, want %v", tt.pad, got, tt.want)
			}
		})
	}
}

func TestMarginsContent(t *testing.T) {
	m := Margins{Left: 10, Right: 20, Top: 5, Bottom: 15}
	got := m.Content(200, 100)
	want := Rect{X: 10, Y: 15, W: 170, H: 80}
	if got != want {
		t.Errorf("Content(200, 100) = %v, want %v", got, want)
	}

	u := Uniform(7.2)
	if u.Left != 7.2 || u.Right != 7.2 || u.Top != 7.2 || u.Bottom != 7.2 {
		t.Errorf("Uniform(7.2) = %v, want all sides 7.2", u)
	}
}
