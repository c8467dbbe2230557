package cell

import "math"

// Dielectric constants at telecom wavelengths (~1.55 µm).
const (
	EpsilonVacuum          = 1.0
	EpsilonAir             = 1.0
	EpsilonSilicon         = 11.68
	EpsilonSiliconDioxide  = 2.1
	EpsilonIndiumPhosphide = 3.17
)

// Material is a dielectric with a diagonal permittivity tensor
// (ε_x, ε_y, ε_z). The rasterizer only consumes the in-plane scalar.
type Material struct {
	Epsilon [3]float64
}

// FromEpsilon returns an isotropic material with dielectric constant eps.
func FromEpsilon(eps float64) Material {
	return Material{Epsilon: [3]float64{eps, eps, eps}}
}

// FromIndex returns an isotropic material with refractive index n.
func FromIndex(n float64) Material {
	return FromEpsilon(n * n)
}

// Anisotropic returns a material with the given diagonal tensor.
func Anisotropic(epsX, epsY, epsZ float64) Material {
	return Material{Epsilon: [3]float64{epsX, epsY, epsZ}}
}

// Air is an isotropic material with ε = 1.
func Air() Material { return FromEpsilon(EpsilonAir) }

// Silicon is isotropic silicon.
func Silicon() Material { return FromEpsilon(EpsilonSilicon) }

// InPlane returns ε_x, the scalar used for in-plane (TE) rasterization.
func (m Material) InPlane() float64 {
	return m.Epsilon[0]
}

// IsIsotropic reports whether all diagonal entries are equal.
func (m Material) IsIsotropic() bool {
	return m.Epsilon[0] == m.Epsilon[1] && m.Epsilon[1] == m.Epsilon[2]
}

// RefractiveIndex returns the per-axis refractive indices √ε.
func (m Material) RefractiveIndex() [3]float64 {
	return [3]float64{
		math.Sqrt(m.Epsilon[0]),
		math.Sqrt(m.Epsilon[1]),
		math.Sqrt(m.Epsilon[2]),
	}
}
