package bill

import "fmt"

// MismatchKind classifies a divergence between the local endorsement chain
// and the one recorded on the ledger
type MismatchKind string

const (
	MismatchMissingOnLedger MismatchKind = "MISSING_ON_LEDGER"
	MismatchMissingLocally  MismatchKind = "MISSING_LOCALLY"
	MismatchFieldDiffers    MismatchKind = "FIELD_DIFFERS"
)

// Mismatch is one divergence found during reconciliation
type Mismatch struct {
	SequenceNo int
	Kind       MismatchKind
	Detail     string
}

// MismatchReport is the outcome of comparing the local endorsement chain
// against the ledger's
type MismatchReport struct {
	BillNumber  string
	LocalCount  int
	LedgerCount int
	Mismatches  []Mismatch
}

// InSync returns true when the two chains agree entry for entry
func (r MismatchReport) InSync() bool {
	return len(r.Mismatches) == 0
}

// CompareEndorsementChains compares the locally stored endorsement chain with
// the chain read from the ledger. Local records are expected in sequence
// order, as returned by the endorsement repository.
func CompareEndorsementChains(billNumber string, local []*Endorsement, ledger []LedgerEndorsement) MismatchReport {
	report := MismatchReport{
		BillNumber:  billNumber,
		LocalCount:  len(local),
		LedgerCount: len(ledger),
	}

	n := len(local)
	if len(ledger) < n {
		n = len(ledger)
	}

	for i := 0; i < n; i++ {
		l, r := local[i], ledger[i]
		if l.EndorserAddress != r.Endorser {
			report.Mismatches = append(report.Mismatches, Mismatch{
				SequenceNo: l.SequenceNo,
				Kind:       MismatchFieldDiffers,
				Detail:     fmt.Sprintf("endorser differs: local=%s ledger=%s", l.EndorserAddress, r.Endorser),
			})
		}
		if l.EndorseeAddress != r.Endorsee {
			report.Mismatches = append(report.Mismatches, Mismatch{
				SequenceNo: l.SequenceNo,
				Kind:       MismatchFieldDiffers,
				Detail:     fmt.Sprintf("endorsee differs: local=%s ledger=%s", l.EndorseeAddress, r.Endorsee),
			})
		}
		if l.Kind.String() != r.Kind {
			report.Mismatches = append(report.Mismatches, Mismatch{
				SequenceNo: l.SequenceNo,
				Kind:       MismatchFieldDiffers,
				Detail:     fmt.Sprintf("kind differs: local=%s ledger=%s", l.Kind, r.Kind),
			})
		}
	}

	for i := n; i < len(local); i++ {
		report.Mismatches = append(report.Mismatches, Mismatch{
			SequenceNo: local[i].SequenceNo,
			Kind:       MismatchMissingOnLedger,
			Detail:     fmt.Sprintf("endorsement %s -> %s not on ledger", local[i].EndorserAddress, local[i].EndorseeAddress),
		})
	}
	for i := n; i < len(ledger); i++ {
		report.Mismatches = append(report.Mismatches, Mismatch{
			SequenceNo: i + 1,
			Kind:       MismatchMissingLocally,
			Detail:     fmt.Sprintf("endorsement %s -> %s only on ledger", ledger[i].Endorser, ledger[i].Endorsee),
		})
	}

	return report
}
