package ledger

import (
	"fmt"
	"time"
)

// DefaultFiscalYearStartMonth is April, the start of the Indian fiscal year
const DefaultFiscalYearStartMonth = time.April

// FiscalYearLabel returns the fiscal year label for a date, e.g. "2025-26"
// for any date between 1 April 2025 and 31 March 2026 with an April start.
// A January start collapses to the plain calendar year "2025".
func FiscalYearLabel(date time.Time, startMonth time.Month) string {
	if startMonth < time.January || startMonth > time.December {
		startMonth = DefaultFiscalYearStartMonth
	}
	year := date.Year()
	if date.Month() < startMonth {
		year--
	}
	if startMonth == time.January {
		return fmt.Sprintf("%d", year)
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

// FiscalYearStart returns the first day of the fiscal year containing date
func FiscalYearStart(date time.Time, startMonth time.Month) time.Time {
	if startMonth < time.January || startMonth > time.December {
		startMonth = DefaultFiscalYearStartMonth
	}
	year := date.Year()
	if date.Month() < startMonth {
		year--
	}
	return time.Date(year, startMonth, 1, 0, 0, 0, 0, date.Location())
}

// FormatEntryNumber builds the entry number from its parts, e.g.
// "JV/2025-26/00042". Sequence numbers are per tenant and fiscal year.
func FormatEntryNumber(prefix, fiscalYear string, sequence int64) string {
	return fmt.Sprintf("%s/%s/%05d", prefix, fiscalYear, sequence)
}
