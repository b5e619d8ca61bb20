package state

import (
	"math"

	"github.com/navkernel/almanac/epoch"
	"github.com/navkernel/almanac/frame"
	"github.com/navkernel/almanac/internal/linalg"
	"github.com/navkernel/almanac/kerrors"
)

// Keplerian holds classical orbital elements in km/degrees, per spec.md
// §4.4. Angles are in degrees to match the teacher-pack convention set by
// orbit.rs's try_keplerian (km, none, degrees, degrees, degrees, degrees).
type Keplerian struct {
	SMAKm    float64
	Ecc      float64
	IncDeg   float64
	RAANDeg  float64
	AOPDeg   float64
	TADeg    float64
}

// FromKeplerian builds a CartesianState from classical orbital elements,
// per spec.md §4.4's guarded conversion. It is a direct port of
// orbit.rs's try_keplerian (itself GMAT's StateConversionUtil::ComputeKeplToCart):
//   - negative eccentricity is flipped rather than rejected;
//   - an elliptical sma/ecc sign mismatch is corrected the same way;
//   - a periapsis radius below 1 m is tolerated (no error, matching GMAT);
//   - near-parabolic eccentricity, a semi-latus rectum too close to zero,
//     and a hyperbolic true anomaly beyond the asymptote all fail with the
//     matching physics error.
func FromKeplerian(k Keplerian, e epoch.Epoch, f frame.Frame) (CartesianState, error) {
	if !f.HasMu {
		return CartesianState{}, kerrors.Action(&kerrors.MissingGravParamError{BodyID: f.EphemerisID}, "converting Keplerian elements to Cartesian")
	}
	mu := f.Mu

	ecc := k.Ecc
	if ecc < 0 {
		ecc = -ecc
	}
	sma := k.SMAKm
	if ecc > 1.0 && sma > 0.0 {
		sma = -sma
	} else if ecc < 1.0 && sma < 0.0 {
		sma = -sma
	}

	if absf(1.0-ecc) < eccEpsilon {
		return CartesianState{}, kerrors.Action(&kerrors.ParabolicEccentricityError{Eccentricity: ecc}, "converting Keplerian elements to Cartesian")
	}

	incRad := radians(k.IncDeg)
	raanRad := radians(k.RAANDeg)
	aopRad := radians(k.AOPDeg)
	taRad := radians(k.TADeg)

	if ecc > 1.0 {
		taDegNorm := between0And360(k.TADeg)
		limitDeg := degrees(math.Pi - math.Acos(1.0/ecc))
		if taDegNorm > limitDeg {
			return CartesianState{}, kerrors.Action(&kerrors.HyperbolicTrueAnomalyError{TrueAnomalyRad: taRad, Eccentricity: ecc}, "converting Keplerian elements to Cartesian")
		}
	}

	p := sma * (1.0 - ecc*ecc)
	if absf(p) < 2.220446049250313e-16 {
		return CartesianState{}, kerrors.Action(&kerrors.ParabolicSemiParamError{SemiLatusRectumKm: p}, "converting Keplerian elements to Cartesian")
	}

	radius := p / (1.0 + ecc*math.Cos(taRad))
	sinAopTa, cosAopTa := math.Sincos(aopRad + taRad)
	sinInc, cosInc := math.Sincos(incRad)
	sinRaan, cosRaan := math.Sincos(raanRad)
	sinAop, cosAop := math.Sincos(aopRad)

	x := radius * (cosAopTa*cosRaan - cosInc*sinAopTa*sinRaan)
	y := radius * (cosAopTa*sinRaan + cosInc*sinAopTa*cosRaan)
	z := radius * sinAopTa * sinInc

	sqrtGMP := math.Sqrt(mu / p)
	cosTaEcc := math.Cos(taRad) + ecc
	sinTa := math.Sin(taRad)

	vx := sqrtGMP*cosTaEcc*(-sinAop*cosRaan-cosInc*sinRaan*cosAop) - sqrtGMP*sinTa*(cosAop*cosRaan-cosInc*sinRaan*sinAop)
	vy := sqrtGMP*cosTaEcc*(-sinAop*sinRaan+cosInc*cosRaan*cosAop) - sqrtGMP*sinTa*(cosAop*sinRaan+cosInc*cosRaan*sinAop)
	vz := sqrtGMP * (cosTaEcc*sinInc*cosAop - sinTa*sinInc*sinAop)

	return New(x, y, z, vx, vy, vz, e, f), nil
}

// FromApsisRadii builds a CartesianState from the apoapsis/periapsis radii
// (km) instead of sma/ecc, per spec.md §4.4 and orbit.rs's
// try_keplerian_apsis_radii.
func FromApsisRadii(apoapsisKm, periapsisKm, incDeg, raanDeg, aopDeg, taDeg float64, e epoch.Epoch, f frame.Frame) (CartesianState, error) {
	if apoapsisKm <= 0 || periapsisKm <= 0 {
		return CartesianState{}, kerrors.Action(&kerrors.DomainError{Action: "apoapsis/periapsis radius must be positive", Value: periapsisKm}, "converting apsis radii to Cartesian")
	}
	sma := (apoapsisKm + periapsisKm) / 2.0
	ecc := apoapsisKm/sma - 1.0
	return FromKeplerian(Keplerian{SMAKm: sma, Ecc: ecc, IncDeg: incDeg, RAANDeg: raanDeg, AOPDeg: aopDeg, TADeg: taDeg}, e, f)
}

// Hvec returns the orbital angular momentum vector r x v.
func (s CartesianState) Hvec() (linalg.Vec3, error) {
	if s.RmagKm() < 2.220446049250313e-16 || s.VmagKmS() < 2.220446049250313e-16 {
		return linalg.Vec3{}, kerrors.Action(&kerrors.DomainError{Action: "cannot compute orbital momentum with zero radius or velocity", Value: s.RmagKm()}, "computing orbital momentum")
	}
	return s.PositionKm.Cross(s.VelocityKmS), nil
}

// Hmag returns the norm of the orbital momentum vector.
func (s CartesianState) Hmag() (float64, error) {
	h, err := s.Hvec()
	if err != nil {
		return 0, err
	}
	return h.Norm(), nil
}

// EnergyKm2S2 returns the specific mechanical energy, vmag^2/2 - mu/rmag.
func (s CartesianState) EnergyKm2S2() (float64, error) {
	if !s.Frame.HasMu {
		return 0, kerrors.Action(&kerrors.MissingGravParamError{BodyID: s.Frame.EphemerisID}, "computing orbital energy")
	}
	if s.RmagKm() < 2.220446049250313e-16 {
		return 0, kerrors.Action(&kerrors.DomainError{Action: "cannot compute energy with zero radius", Value: 0}, "computing orbital energy")
	}
	return s.VmagKmS()*s.VmagKmS()/2.0 - s.Frame.Mu/s.RmagKm(), nil
}

// SmaKm returns the semi-major axis in kilometers.
func (s CartesianState) SmaKm() (float64, error) {
	energy, err := s.EnergyKm2S2()
	if err != nil {
		return 0, err
	}
	return -s.Frame.Mu / (2.0 * energy), nil
}

// Evec returns the eccentricity vector.
func (s CartesianState) Evec() (linalg.Vec3, error) {
	if !s.Frame.HasMu {
		return linalg.Vec3{}, kerrors.Action(&kerrors.MissingGravParamError{BodyID: s.Frame.EphemerisID}, "computing eccentricity vector")
	}
	if s.RmagKm() < 2.220446049250313e-16 {
		return linalg.Vec3{}, kerrors.Action(&kerrors.DomainError{Action: "cannot compute eccentricity with zero radius", Value: 0}, "computing eccentricity vector")
	}
	r, v, mu := s.PositionKm, s.VelocityKmS, s.Frame.Mu
	vmag2 := v.Norm() * v.Norm()
	term := r.Scale(vmag2 - mu/r.Norm()).Sub(v.Scale(r.Dot(v)))
	return term.Scale(1.0 / mu), nil
}

// Ecc returns the orbital eccentricity.
func (s CartesianState) Ecc() (float64, error) {
	e, err := s.Evec()
	if err != nil {
		return 0, err
	}
	return e.Norm(), nil
}

// IncDeg returns the inclination in degrees.
func (s CartesianState) IncDeg() (float64, error) {
	h, err := s.Hvec()
	if err != nil {
		return 0, err
	}
	hmag := h.Norm()
	return degrees(math.Acos(h[2] / hmag)), nil
}

// RaanDeg returns the right ascension of the ascending node in degrees.
func (s CartesianState) RaanDeg() (float64, error) {
	h, err := s.Hvec()
	if err != nil {
		return 0, err
	}
	n := linalg.Vec3{0, 0, 1}.Cross(h)
	cosRaan := n[0] / n.Norm()
	raan := math.Acos(cosRaan)
	if math.IsNaN(raan) {
		if cosRaan > 1.0 {
			return 180.0, nil
		}
		return 0.0, nil
	}
	if n[1] < 0 {
		return degrees(2*math.Pi - raan), nil
	}
	return degrees(raan), nil
}

// AopDeg returns the argument of periapsis in degrees.
func (s CartesianState) AopDeg() (float64, error) {
	h, err := s.Hvec()
	if err != nil {
		return 0, err
	}
	ev, err := s.Evec()
	if err != nil {
		return 0, err
	}
	ecc, err := s.Ecc()
	if err != nil {
		return 0, err
	}
	n := linalg.Vec3{0, 0, 1}.Cross(h)
	cosAop := n.Dot(ev) / (n.Norm() * ecc)
	aop := math.Acos(cosAop)
	if math.IsNaN(aop) {
		if cosAop > 1.0 {
			return 180.0, nil
		}
		return 0.0, nil
	}
	if ev[2] < 0 {
		return degrees(2*math.Pi - aop), nil
	}
	return degrees(aop), nil
}

// TaDeg returns the true anomaly in degrees, between 0 and 360.
func (s CartesianState) TaDeg() (float64, error) {
	ev, err := s.Evec()
	if err != nil {
		return 0, err
	}
	ecc, err := s.Ecc()
	if err != nil {
		return 0, err
	}
	cosNu := ev.Dot(s.PositionKm) / (ecc * s.RmagKm())
	ta := math.Acos(cosNu)
	if math.IsNaN(ta) {
		if cosNu > 1.0 {
			return 180.0, nil
		}
		return 0.0, nil
	}
	if s.PositionKm.Dot(s.VelocityKmS) < 0 {
		return degrees(2*math.Pi - ta), nil
	}
	return degrees(ta), nil
}

// EaDeg returns the eccentric anomaly in degrees.
func (s CartesianState) EaDeg() (float64, error) {
	taDeg, err := s.TaDeg()
	if err != nil {
		return 0, err
	}
	ecc, err := s.Ecc()
	if err != nil {
		return 0, err
	}
	sinTa, cosTa := math.Sincos(radians(taDeg))
	eccCosTa := ecc * cosTa
	sinEa := math.Sqrt(1-ecc*ecc) * sinTa / (1 + eccCosTa)
	cosEa := (ecc + cosTa) / (1 + eccCosTa)
	return degrees(math.Atan2(sinEa, cosEa)), nil
}

// MaDeg returns the mean anomaly in degrees.
func (s CartesianState) MaDeg() (float64, error) {
	ecc, err := s.Ecc()
	if err != nil {
		return 0, err
	}
	if absf(1.0-ecc) < eccEpsilon {
		return 0, kerrors.Action(&kerrors.ParabolicEccentricityError{Eccentricity: ecc}, "computing mean anomaly")
	}
	if ecc < 1.0 {
		eaDeg, err := s.EaDeg()
		if err != nil {
			return 0, err
		}
		eaRad := radians(eaDeg)
		return between0And360(degrees(eaRad - ecc*math.Sin(eaRad))), nil
	}
	taDeg, err := s.TaDeg()
	if err != nil {
		return 0, err
	}
	taRad := radians(taDeg)
	num := math.Sin(taRad) * (ecc*ecc - 1.0)
	den := 1.0 + ecc*math.Cos(taRad)
	return degrees(math.Asinh(math.Sqrt(absf(num)) / den * sign(num))), nil
}

// PeriodSec returns the orbital period in seconds.
func (s CartesianState) PeriodSec() (float64, error) {
	if !s.Frame.HasMu {
		return 0, kerrors.Action(&kerrors.MissingGravParamError{BodyID: s.Frame.EphemerisID}, "computing orbital period")
	}
	sma, err := s.SmaKm()
	if err != nil {
		return 0, err
	}
	return 2 * math.Pi * math.Sqrt(sma*sma*sma/s.Frame.Mu), nil
}

// PeriapsisKm returns the radius of periapsis in kilometers.
func (s CartesianState) PeriapsisKm() (float64, error) {
	sma, err := s.SmaKm()
	if err != nil {
		return 0, err
	}
	ecc, err := s.Ecc()
	if err != nil {
		return 0, err
	}
	return sma * (1 - ecc), nil
}

// ApoapsisKm returns the radius of apoapsis in kilometers.
func (s CartesianState) ApoapsisKm() (float64, error) {
	sma, err := s.SmaKm()
	if err != nil {
		return 0, err
	}
	ecc, err := s.Ecc()
	if err != nil {
		return 0, err
	}
	return sma * (1 + ecc), nil
}

// ToKeplerian bundles the six classical elements into a Keplerian value.
func (s CartesianState) ToKeplerian() (Keplerian, error) {
	sma, err := s.SmaKm()
	if err != nil {
		return Keplerian{}, err
	}
	ecc, err := s.Ecc()
	if err != nil {
		return Keplerian{}, err
	}
	inc, err := s.IncDeg()
	if err != nil {
		return Keplerian{}, err
	}
	raan, err := s.RaanDeg()
	if err != nil {
		return Keplerian{}, err
	}
	aop, err := s.AopDeg()
	if err != nil {
		return Keplerian{}, err
	}
	ta, err := s.TaDeg()
	if err != nil {
		return Keplerian{}, err
	}
	return Keplerian{SMAKm: sma, Ecc: ecc, IncDeg: inc, RAANDeg: raan, AOPDeg: aop, TADeg: ta}, nil
}

// WithSMA returns a copy of s with a new semi-major axis, rebuilt via
// Keplerian->Cartesian per spec.md §4.4's "mutators... rebuild the state".
func (s CartesianState) WithSMA(newSMAKm float64) (CartesianState, error) {
	k, err := s.ToKeplerian()
	if err != nil {
		return CartesianState{}, err
	}
	k.SMAKm = newSMAKm
	return FromKeplerian(k, s.Epoch, s.Frame)
}

// WithEcc returns a copy of s with a new eccentricity.
func (s CartesianState) WithEcc(newEcc float64) (CartesianState, error) {
	k, err := s.ToKeplerian()
	if err != nil {
		return CartesianState{}, err
	}
	k.Ecc = newEcc
	return FromKeplerian(k, s.Epoch, s.Frame)
}

// AddEcc returns a copy of s with delta added to its eccentricity.
func (s CartesianState) AddEcc(delta float64) (CartesianState, error) {
	ecc, err := s.Ecc()
	if err != nil {
		return CartesianState{}, err
	}
	return s.WithEcc(ecc + delta)
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
