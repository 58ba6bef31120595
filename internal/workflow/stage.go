// Package workflow holds the indent approval pipeline: which lines wait in
// which stage, and the row changes each stage decision writes back.
//
// An INDENT row moves through up to six stages. Each stage owns a
// planned/actual column pair; the line is pending in a stage while the
// planned column is set and the actual column is still empty.
package workflow

import (
	"errors"
	"fmt"

	"indentdesk/pkg/contracts/domain"
)

// ErrUnknownStage is returned by ParseStage
var ErrUnknownStage = errors.New("unknown workflow stage")

// Stage names one step of the pipeline
type Stage string

const (
	StageIndentApproval     Stage = "indent-approval"
	StageVendorUpdate       Stage = "vendor-update"
	StageThreePartyApproval Stage = "three-party-approval"
	StagePurchaseOrder      Stage = "purchase-order"
	StageReceive            Stage = "receive"
	StageStoreOut           Stage = "store-out-approval"
)

// Stages lists every stage in pipeline order
var Stages = []Stage{
	StageIndentApproval,
	StageVendorUpdate,
	StageThreePartyApproval,
	StagePurchaseOrder,
	StageReceive,
	StageStoreOut,
}

// ParseStage validates a stage name from a URL or flag
func ParseStage(name string) (Stage, error) {
	for _, s := range Stages {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStage, name)
}

// ViewPermission is the permission needed to list the stage's queue
func (s Stage) ViewPermission() domain.Permission {
	switch s {
	case StageIndentApproval:
		return domain.PermIndentApprovalView
	case StageVendorUpdate:
		return domain.PermUpdateVendorView
	case StageThreePartyApproval:
		return domain.PermThreePartyApprovalView
	case StagePurchaseOrder:
		return domain.PermPendingIndentsView
	case StageReceive:
		return domain.PermReceiveItemView
	case StageStoreOut:
		return domain.PermStoreOutApprovalView
	}
	return domain.PermAdministrate
}

// ActionPermission is the permission needed to decide a line in the stage
func (s Stage) ActionPermission() domain.Permission {
	switch s {
	case StageIndentApproval:
		return domain.PermIndentApprovalAction
	case StageVendorUpdate:
		return domain.PermUpdateVendorAction
	case StageThreePartyApproval:
		return domain.PermThreePartyApprovalAction
	case StagePurchaseOrder:
		return domain.PermCreatePO
	case StageReceive:
		return domain.PermReceiveItemAction
	case StageStoreOut:
		return domain.PermStoreOutApprovalAction
	}
	return domain.PermAdministrate
}

// columns returns the stage's planned and actual cells
func (s Stage) columns(i domain.Indent) (planned, actual string) {
	switch s {
	case StageIndentApproval:
		return i.Planned1, i.Actual1
	case StageVendorUpdate:
		return i.Planned2, i.Actual2
	case StageThreePartyApproval:
		return i.Planned3, i.Actual3
	case StagePurchaseOrder:
		return i.Planned4, i.Actual4
	case StageReceive:
		return i.Planned5, i.Actual5
	case StageStoreOut:
		return i.Planned6, i.Actual6
	}
	return "", ""
}

// applies narrows a stage to the lines it handles at all
func (s Stage) applies(i domain.Indent) bool {
	switch s {
	case StageIndentApproval:
		return i.IndentType == domain.IndentTypePurchase
	case StageThreePartyApproval:
		return i.VendorType == domain.VendorTypeThreeParty
	case StageStoreOut:
		return i.IndentType == domain.IndentTypeStoreOut
	}
	return true
}

// IsPending reports whether the line waits for a decision in the stage
func (s Stage) IsPending(i domain.Indent) bool {
	planned, actual := s.columns(i)
	if planned == "" || actual != "" || !s.applies(i) {
		return false
	}
	// Purchase orders are only raised once a rate is settled
	if s == StagePurchaseOrder && i.Actual3 == "" {
		return false
	}
	return true
}

// IsDone reports whether the stage was decided for the line
func (s Stage) IsDone(i domain.Indent) bool {
	planned, actual := s.columns(i)
	return planned != "" && actual != "" && s.applies(i)
}

// Pending returns the lines waiting in the stage, in sheet order
func Pending(indents []domain.Indent, s Stage) []domain.Indent {
	return filter(indents, s.IsPending)
}

// History returns the lines the stage already decided, in sheet order
func History(indents []domain.Indent, s Stage) []domain.Indent {
	return filter(indents, s.IsDone)
}

// Notifications counts the lines waiting per stage. Indent approval counts
// purchase lines that have no vendor type yet, so a line counts until a
// decision is recorded even if its actual column was filled by hand.
func Notifications(indents []domain.Indent) map[Stage]int {
	counts := make(map[Stage]int, len(Stages))
	for _, s := range Stages {
		counts[s] = 0
	}
	for _, i := range indents {
		if i.Planned1 != "" && i.VendorType == "" && i.IndentType == domain.IndentTypePurchase {
			counts[StageIndentApproval]++
		}
		for _, s := range Stages[1:] {
			if s.IsPending(i) {
				counts[s]++
			}
		}
	}
	return counts
}

func filter(indents []domain.Indent, keep func(domain.Indent) bool) []domain.Indent {
	out := make([]domain.Indent, 0)
	for _, i := range indents {
		if keep(i) {
			out = append(out, i)
		}
	}
	return out
}
