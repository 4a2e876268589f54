package domain

// taxonomy.go — registro inmutable de arquetipos de trampa.
//
// El registro se declara una vez y nunca se muta en runtime. El orden de
// las entradas importa: ante un empate de patrones coincidentes gana la
// primera entrada registrada (desempate explícito y documentado).

// PatternTag es la etiqueta canónica de un patrón de detección.
// Varias anomalías distintas pueden resolver al mismo patrón.
type PatternTag string

const (
	PatternOutlierOddsValue      PatternTag = "outlier_odds_value"
	PatternHouseAdvantageUp      PatternTag = "house_advantage_increase"
	PatternImpliedProbGap        PatternTag = "implied_prob_inconsistency"
	PatternOddsMispricing        PatternTag = "odds_mispricing"
	PatternVisibleBalancedVolume PatternTag = "visible_balanced_volume"
	PatternHiddenImbalance       PatternTag = "hidden_imbalance"
	PatternHeavyPublicFavorite   PatternTag = "heavy_public_favorite"
	PatternLateOddsMovement      PatternTag = "late_odds_movement"
	PatternRapidOddsShift        PatternTag = "rapid_odds_shift"
	PatternCounterPublicMovement PatternTag = "counter_public_movement"
	PatternNewsOddsDisconnect    PatternTag = "news_odds_disconnect"
	PatternOddsStagnation        PatternTag = "odds_stagnation"
	PatternSharpAction           PatternTag = "sharp_action_detected"
	PatternTimingPattern         PatternTag = "timing_pattern"
	PatternOddsAgainstVolume     PatternTag = "odds_movement_against_volume"
	PatternArbitrage             PatternTag = "arbitrage_opportunity"
)

// TrapType nombra un arquetipo de trampa del registro.
type TrapType string

const (
	TrapOddsReversal           TrapType = "odds_reversal"
	TrapImpliedProbabilityGap  TrapType = "implied_probability_gap"
	TrapFalseFavorite          TrapType = "false_favorite"
	TrapSteamMove              TrapType = "steam_move"
	TrapArtificialBoost        TrapType = "artificial_boost"
	TrapLineFreeze             TrapType = "line_freeze"
	TrapBalancedActionIllusion TrapType = "balanced_action_illusion"
	TrapReverseMovementTrigger TrapType = "reverse_movement_trigger"
	TrapGeneric                TrapType = "generic_trap"
)

// TrapTaxonomyEntry es un arquetipo de trampa registrado: nombre, descripción
// legible, severidad base y los patrones de detección que lo caracterizan.
type TrapTaxonomyEntry struct {
	Type         TrapType
	Description  string
	BaseSeverity float64
	Patterns     []PatternTag
}

// taxonomy es el registro ordenado de arquetipos. El orden define el desempate.
var taxonomy = []TrapTaxonomyEntry{
	{
		Type:         TrapOddsReversal,
		Description:  "Inversión de cuotas poco antes del partido",
		BaseSeverity: 0.8,
		Patterns:     []PatternTag{PatternLateOddsMovement, PatternCounterPublicMovement},
	},
	{
		Type:         TrapImpliedProbabilityGap,
		Description:  "Brecha sospechosa entre probabilidades implícitas",
		BaseSeverity: 0.7,
		Patterns:     []PatternTag{PatternImpliedProbGap, PatternArbitrage},
	},
	{
		Type:         TrapFalseFavorite,
		Description:  "Favorito sobrevalorado respecto a su valor real",
		BaseSeverity: 0.85,
		Patterns:     []PatternTag{PatternHeavyPublicFavorite, PatternOddsMispricing},
	},
	{
		Type:         TrapSteamMove,
		Description:  "Movimiento repentino de cuotas sin catalizador aparente",
		BaseSeverity: 0.75,
		Patterns:     []PatternTag{PatternRapidOddsShift, PatternSharpAction},
	},
	{
		Type:         TrapArtificialBoost,
		Description:  "Cuotas infladas artificialmente para atraer apuestas",
		BaseSeverity: 0.8,
		Patterns:     []PatternTag{PatternOutlierOddsValue, PatternHouseAdvantageUp},
	},
	{
		Type:         TrapLineFreeze,
		Description:  "Inmovilidad sospechosa de las cuotas pese a factores cambiantes",
		BaseSeverity: 0.65,
		Patterns:     []PatternTag{PatternOddsStagnation, PatternNewsOddsDisconnect},
	},
	{
		Type:         TrapBalancedActionIllusion,
		Description:  "Ilusión de acción equilibrada que enmascara un desequilibrio real",
		BaseSeverity: 0.7,
		Patterns:     []PatternTag{PatternVisibleBalancedVolume, PatternHiddenImbalance},
	},
	{
		Type:         TrapReverseMovementTrigger,
		Description:  "Cambio provocado para invertir el flujo de apuestas",
		BaseSeverity: 0.75,
		Patterns:     []PatternTag{PatternOddsAgainstVolume, PatternTimingPattern},
	},
}

// Taxonomy devuelve el registro de arquetipos en su orden de registro.
// La slice devuelta no debe mutarse.
func Taxonomy() []TrapTaxonomyEntry {
	return taxonomy
}

// patternMapping resuelve cada tipo de anomalía a su patrón canónico.
var patternMapping = map[AnomalyType]PatternTag{
	AnomalyOutlierHighOdds:            PatternOutlierOddsValue,
	AnomalyOutlierLowOdds:             PatternOutlierOddsValue,
	AnomalyHighOverround:              PatternHouseAdvantageUp,
	AnomalyArbitrageOpportunity:       PatternImpliedProbGap,
	AnomalyHistoricalIncrease:         PatternOddsMispricing,
	AnomalyHistoricalDecrease:         PatternOddsMispricing,
	AnomalyVolumeOddsImbalance:        PatternVisibleBalancedVolume,
	AnomalyReverseVolumeOddsImbalance: PatternHiddenImbalance,
	AnomalyConcentratedVolume:         PatternHeavyPublicFavorite,
	AnomalyOddsReversal:               PatternLateOddsMovement,
	AnomalySuddenOddsMovement:         PatternRapidOddsShift,
	AnomalyUniformOddsMovement:        PatternCounterPublicMovement,
	AnomalyTeamInstability:            PatternNewsOddsDisconnect,
	AnomalyKeyPlayerAbsence:           PatternOddsMispricing,
	AnomalyTacticalMismatch:           PatternHiddenImbalance,
	AnomalyHeadToHeadSkew:             PatternHeavyPublicFavorite,
	AnomalyFormExtreme:                PatternOddsMispricing,
}

// ResolvePattern devuelve el patrón canónico de un tipo de anomalía.
// ok es false para tipos sin mapeo (p.ej. indicadores de seguridad).
func ResolvePattern(t AnomalyType) (PatternTag, bool) {
	p, ok := patternMapping[t]
	return p, ok
}

// ResolvePatterns convierte una lista de señales de riesgo en el conjunto
// de patrones canónicos presentes, sin duplicados y en orden determinista.
func ResolvePatterns(signals []Signal) []PatternTag {
	seen := make(map[PatternTag]bool)
	var patterns []PatternTag
	for _, s := range signals {
		if s.Kind != KindWarning {
			continue
		}
		p, ok := ResolvePattern(s.Type)
		if !ok || seen[p] {
			continue
		}
		seen[p] = true
		patterns = append(patterns, p)
	}
	return patterns
}
