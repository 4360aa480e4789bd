package importers

import "github.com/cockroachdb/errors"

type Mode string

const (
	ModeDryRun Mode = "dry-run"
	ModeCommit Mode = "commit"
)

// ErrInvalidMode is returned unless exactly one of dry-run and commit is selected.
var ErrInvalidMode = errors.New("you must specify either --dry-run or --commit")

func ParseMode(dryRun, commit bool) (Mode, error) {
	switch {
	case dryRun && commit:
		return "", errors.WithDetail(ErrInvalidMode, "dry-run and commit are mutually exclusive")
	case dryRun:
		return ModeDryRun, nil
	case commit:
		return ModeCommit, nil
	default:
		return "", ErrInvalidMode
	}
}

func (m Mode) DryRun() bool {
	return m != ModeCommit
}

func (m Mode) String() string {
	return string(m)
}
