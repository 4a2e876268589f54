package domain

// context.go — señales cualitativas resueltas por collaborators externos.
//
// El núcleo nunca consulta proveedores: recibe estos factores ya resueltos
// (o vacíos si el proveedor no estaba disponible) y solo los convierte a
// señales de mercado. Ver internal/teamdata para la construcción.

// ContextFactorKind clasifica un factor cualitativo.
type ContextFactorKind string

const (
	FactorTeamInstability  ContextFactorKind = "team_instability"
	FactorKeyAbsences      ContextFactorKind = "key_absences"
	FactorTacticalMismatch ContextFactorKind = "tactical_mismatch"
	FactorHeadToHeadSkew   ContextFactorKind = "h2h_skew"
	FactorFormExtreme      ContextFactorKind = "form_extreme"
)

// ContextFactor es un factor cualitativo con su impacto normalizado.
type ContextFactor struct {
	Kind        ContextFactorKind
	Team        string  // equipo al que refiere, "" si aplica al partido entero
	Favors      string  // equipo u outcome favorecido, "" si ninguno
	Impact      float64 // 0-1
	Description string
}

// ContextSignals agrupa los factores cualitativos de un partido.
// Un valor cero significa "sin datos contextuales": el análisis continúa
// solo con cuotas y volúmenes.
type ContextSignals struct {
	Factors []ContextFactor

	// InstabilityFactor es la media del riesgo de inestabilidad de ambos
	// equipos (0 = plantillas estables, 1 = inestabilidad máxima).
	InstabilityFactor float64
}

// Empty devuelve true si no hay ningún dato contextual.
func (cs ContextSignals) Empty() bool {
	return len(cs.Factors) == 0 && cs.InstabilityFactor == 0
}
