package linalg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -1, 2}
	assert.Equal(t, Vec3{5, 1, 5}, a.Add(b))
	assert.Equal(t, Vec3{-3, 3, 1}, a.Sub(b))
	assert.Equal(t, Vec3{-1, -2, -3}, a.Neg())
	assert.Equal(t, Vec3{2, 4, 6}, a.Scale(2))
	assert.Equal(t, 8.0, a.Dot(b))
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	assert.Equal(t, Vec3{0, 0, 1}, x.Cross(y))
	assert.Equal(t, Vec3{0, 0, -1}, y.Cross(x))
}

func TestVec3NormAndNormalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	assert.Equal(t, 5.0, v.Norm())
	n := v.Normalize()
	assert.InDelta(t, 1.0, n.Norm(), 1e-12)
	assert.InDelta(t, 0.6, n[0], 1e-12)
	assert.InDelta(t, 0.8, n[1], 1e-12)
}

func TestVec3NormalizeZeroVector(t *testing.T) {
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
}

func TestMat3IdentityRoundTrip(t *testing.T) {
	v := Vec3{7, -2, 5}
	assert.Equal(t, v, Identity3().MulVec(v))
}

func TestMat3FromColumnsLayout(t *testing.T) {
	x := Vec3{1, 2, 3}
	y := Vec3{4, 5, 6}
	z := Vec3{7, 8, 9}
	m := Mat3FromColumns(x, y, z)
	assert.Equal(t, x, m.MulVec(Vec3{1, 0, 0}))
	assert.Equal(t, y, m.MulVec(Vec3{0, 1, 0}))
	assert.Equal(t, z, m.MulVec(Vec3{0, 0, 1}))
}

func TestMat3MulAndTranspose(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	z := Vec3{0, 0, 1}
	m := Mat3FromColumns(y, z, x) // a permutation, hence orthonormal
	mt := m.Transpose()
	product := m.Mul(mt)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, product[i][j], 1e-12)
		}
	}
}

func TestRotateAboutAxisQuarterTurn(t *testing.T) {
	v := Vec3{1, 0, 0}
	out := RotateAboutAxis(v, Vec3{0, 0, 1}, math.Pi/2)
	assert.InDelta(t, 0.0, out[0], 1e-12)
	assert.InDelta(t, 1.0, out[1], 1e-12)
	assert.InDelta(t, 0.0, out[2], 1e-12)
}

func TestRotateAboutAxisPreservesNorm(t *testing.T) {
	v := Vec3{2, -3, 5}
	out := RotateAboutAxis(v, Vec3{1, 1, 1}, 0.73)
	assert.InDelta(t, v.Norm(), out.Norm(), 1e-9)
}
