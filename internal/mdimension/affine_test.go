package mdimension

import (
	"errors"
	"math"
	"testing"
)

func TestComposeAffine_ScaleRotateTranslate(t *testing.T) {
	R, _ := ComposeRotation(4, RotationAngles{{0, 1}: math.Pi / 2})
	M, err := ComposeAffine(R, Affine{
		Scales:      []float64{2},
		Translation: []float64{0, 0, 1, 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	// (1,0,0,0) -> scale (2,0,0,0) -> rotate (0,2,0,0) -> translate (0,2,1,0)
	got, err := TransformPoint(M, NDVector{1, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if !vecAlmostEq(got, []float64{0, 2, 1, 0}, 1e-12) {
		t.Fatalf("got %v", got)
	}
}

func TestComposeAffine_Shear(t *testing.T) {
	R, _ := Identity(3)
	M, err := ComposeAffine(R, Affine{Shears: []Shear{{To: 0, From: 2, Factor: 0.5}}})
	if err != nil {
		t.Fatal(err)
	}
	got, _ := TransformPoint(M, NDVector{1, 1, 2})
	if !vecAlmostEq(got, []float64{2, 1, 2}, 1e-12) {
		t.Fatalf("got %v", got)
	}
}

func TestAffine_Errors(t *testing.T) {
	if _, err := ShearMatrix(4, Shear{To: 1, From: 1}); !errors.Is(err, ErrPlane) {
		t.Fatalf("want ErrPlane, got %v", err)
	}
	if _, err := TranslationMatrix(3, []float64{1, 2, 3, 4}); !errors.Is(err, ErrVectorLength) {
		t.Fatalf("want ErrVectorLength, got %v", err)
	}
	if _, err := ScaleMatrix(1, nil); !errors.Is(err, ErrDimension) {
		t.Fatalf("want ErrDimension, got %v", err)
	}
	M, _ := TranslationMatrix(3, nil)
	if _, err := TransformPoint(M, NDVector{1, 2}); !errors.Is(err, ErrVectorLength) {
		t.Fatalf("want ErrVectorLength, got %v", err)
	}
}
