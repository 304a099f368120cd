package section

import (
	"database/sql"

	"github.com/lexgrid/lexsearch/internal/domain"
)

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanCandidate reads the candidate projection. Nullable columns collapse to
// empty strings; timestamps stay textual to remain dialect-neutral.
func scanCandidate(s scanner) (domain.Section, error) {
	var (
		sec                             domain.Section
		punishment, source, lastUpdate sql.NullString
	)

	err := s.Scan(
		&sec.ID, &sec.SectionCode, &sec.SectionNumber, &sec.Title,
		&sec.Description, &sec.Category, &punishment, &source, &lastUpdate,
	)
	if err != nil {
		return domain.Section{}, err
	}

	sec.Punishment = punishment.String
	sec.Source = source.String
	sec.LastUpdated = lastUpdate.String
	return sec, nil
}

// scanDetail reads the full projection used by GetByCode.
func scanDetail(s scanner) (domain.Section, error) {
	var (
		sec domain.Section

		punishment, bailable, cognizable, compoundable sql.NullString
		fineRange, imprisonmentRange                   sql.NullString
		source, lastUpdate                             sql.NullString
	)

	err := s.Scan(
		&sec.ID, &sec.SectionCode, &sec.SectionNumber, &sec.Title,
		&sec.Description, &sec.Category, &punishment, &bailable,
		&cognizable, &compoundable, &fineRange, &imprisonmentRange,
		&source, &lastUpdate,
	)
	if err != nil {
		return domain.Section{}, err
	}

	sec.Punishment = punishment.String
	sec.Bailable = bailable.String
	sec.Cognizable = cognizable.String
	sec.Compoundable = compoundable.String
	sec.FineRange = fineRange.String
	sec.ImprisonmentRange = imprisonmentRange.String
	sec.Source = source.String
	sec.LastUpdated = lastUpdate.String
	return sec, nil
}
