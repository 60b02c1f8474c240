package convert

import (
	"papershelf/internal/domain"
	"papershelf/internal/domain/models"
)

// Strategy selects how a format pair gets converted.
type Strategy string

const (
	// StrategyLocal renders in-process without touching the network.
	StrategyLocal Strategy = "local"

	// StrategyRemote delegates to the external conversion service.
	StrategyRemote Strategy = "remote"
)

type pairKey struct {
	Source models.DocumentType
	Target models.DocumentType
}

// policyTable is the closed set of supported conversions. A pair absent
// from this table is rejected before any work, local or remote, happens.
var policyTable = map[pairKey]Strategy{
	{models.TypeImage, models.TypePDF}: StrategyLocal,
	{models.TypePDF, models.TypeImage}: StrategyLocal,

	{models.TypeDocx, models.TypePDF}: StrategyRemote,
	{models.TypePptx, models.TypePDF}: StrategyRemote,
	{models.TypeXlsx, models.TypePDF}: StrategyRemote,

	{models.TypePDF, models.TypeDocx}: StrategyRemote,
	{models.TypePDF, models.TypePptx}: StrategyRemote,
	{models.TypePDF, models.TypeXlsx}: StrategyRemote,
}

// Lookup resolves the strategy for a source/target pair, or an
// UnsupportedConversionError when the pair is outside the policy table.
func Lookup(source, target models.DocumentType) (Strategy, error) {
	if strategy, ok := policyTable[pairKey{Source: source, Target: target}]; ok {
		return strategy, nil
	}
	return "", &domain.UnsupportedConversionError{
		Source: string(source),
		Target: string(target),
	}
}
