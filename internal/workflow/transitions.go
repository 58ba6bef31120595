package workflow

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"indentdesk/pkg/contracts/domain"
)

var (
	ErrIndentNotFound         = errors.New("indent not found")
	ErrNotPending             = errors.New("indent is not pending in this stage")
	ErrInvalidVendorSelection = errors.New("invalid vendor selection")
	ErrNoProducts             = errors.New("indent has no products")
	ErrInvalidDecision        = errors.New("invalid decision")
)

// TimestampLayout matches the ISO instants the sheets already hold
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// IndentPrefix starts every indent number
const IndentPrefix = "SI-"

// Stamp formats t for a timestamp or actual column
func Stamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Draft is a new indent before it gets a number
type Draft struct {
	IndenterName     string
	IndentApprovedBy string
	IndentType       string
	Lines            []DraftLine
}

// DraftLine is one requested product
type DraftLine struct {
	Department     string
	AreaOfUse      string
	GroupHead      string
	ProductName    string
	Quantity       domain.Number
	UOM            string
	Specifications string
	Attachment     string
}

// NextIndentNumber returns the number one past the highest SI- number in
// use. Counting rows instead would reuse numbers once an indent has several
// lines or a row is deleted.
func NextIndentNumber(existing []domain.Indent) string {
	highest := 0
	for _, i := range existing {
		suffix, ok := strings.CutPrefix(strings.TrimSpace(i.IndentNumber), IndentPrefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%04d", IndentPrefix, highest+1)
}

// NewIndent numbers draft and returns one row per product line
func NewIndent(existing []domain.Indent, draft Draft, now time.Time) ([]domain.Indent, error) {
	if len(draft.Lines) == 0 {
		return nil, ErrNoProducts
	}
	switch draft.IndentType {
	case domain.IndentTypePurchase, domain.IndentTypeStoreOut:
	default:
		return nil, fmt.Errorf("%w: indent type %q", ErrInvalidDecision, draft.IndentType)
	}

	number := NextIndentNumber(existing)
	stamp := Stamp(now)
	rows := make([]domain.Indent, 0, len(draft.Lines))
	for _, line := range draft.Lines {
		rows = append(rows, domain.Indent{
			Timestamp:        stamp,
			IndentNumber:     number,
			IndenterName:     draft.IndenterName,
			Department:       line.Department,
			AreaOfUse:        line.AreaOfUse,
			GroupHead:        line.GroupHead,
			ProductName:      line.ProductName,
			Quantity:         line.Quantity,
			UOM:              line.UOM,
			Specifications:   line.Specifications,
			IndentApprovedBy: draft.IndentApprovedBy,
			IndentType:       draft.IndentType,
			Attachment:       line.Attachment,
		})
	}
	return rows, nil
}

// ApproveIndent records the approval decision on every line of the indent
func ApproveIndent(indents []domain.Indent, number, vendorType string, approvedQuantity domain.Number, now time.Time) ([]domain.Indent, error) {
	switch vendorType {
	case domain.VendorTypeRegular, domain.VendorTypeThreeParty:
		if approvedQuantity <= 0 {
			return nil, fmt.Errorf("%w: approved quantity must be positive", ErrInvalidDecision)
		}
	case domain.VendorTypeReject:
	default:
		return nil, fmt.Errorf("%w: vendor type %q", ErrInvalidDecision, vendorType)
	}

	rows, err := pendingLines(indents, number, StageIndentApproval)
	if err != nil {
		return nil, err
	}
	stamp := Stamp(now)
	for i := range rows {
		rows[i].VendorType = vendorType
		rows[i].ApprovedQuantity = approvedQuantity
		rows[i].Actual1 = stamp
	}
	return rows, nil
}

// UpdateVendors records the vendor quotes. A regular indent takes exactly
// one quote, which also settles the rate; a three-party indent takes
// exactly three and waits for rate approval.
func UpdateVendors(indents []domain.Indent, number string, quotes []domain.VendorQuote, comparisonSheet string, now time.Time) ([]domain.Indent, error) {
	rows, err := pendingLines(indents, number, StageVendorUpdate)
	if err != nil {
		return nil, err
	}

	want := 1
	if rows[0].VendorType == domain.VendorTypeThreeParty {
		want = 3
	}
	if len(quotes) != want {
		return nil, fmt.Errorf("%w: %s indent needs %d vendor(s), got %d", ErrInvalidVendorSelection, vendorLabel(rows[0].VendorType), want, len(quotes))
	}
	for n, q := range quotes {
		if strings.TrimSpace(q.Name) == "" || q.Rate <= 0 || strings.TrimSpace(q.PaymentTerm) == "" {
			return nil, fmt.Errorf("%w: vendor %d needs a name, a positive rate and a payment term", ErrInvalidVendorSelection, n+1)
		}
	}

	stamp := Stamp(now)
	for i := range rows {
		rows[i].Actual2 = stamp
		rows[i].VendorName1, rows[i].Rate1, rows[i].PaymentTerm1 = quotes[0].Name, quotes[0].Rate, quotes[0].PaymentTerm
		if want == 3 {
			rows[i].VendorName2, rows[i].Rate2, rows[i].PaymentTerm2 = quotes[1].Name, quotes[1].Rate, quotes[1].PaymentTerm
			rows[i].VendorName3, rows[i].Rate3, rows[i].PaymentTerm3 = quotes[2].Name, quotes[2].Rate, quotes[2].PaymentTerm
			rows[i].ComparisonSheet = comparisonSheet
			continue
		}
		settle(&rows[i], quotes[0], stamp)
	}
	return rows, nil
}

// ApproveRate picks quote vendor (1 to 3) of a three-party comparison
func ApproveRate(indents []domain.Indent, number string, vendor int, now time.Time) ([]domain.Indent, error) {
	rows, err := pendingLines(indents, number, StageThreePartyApproval)
	if err != nil {
		return nil, err
	}
	if vendor < 1 || vendor > 3 {
		return nil, fmt.Errorf("%w: vendor must be 1, 2 or 3", ErrInvalidVendorSelection)
	}

	stamp := Stamp(now)
	for i := range rows {
		quote := quoteAt(rows[i], vendor)
		if quote.Name == "" {
			return nil, fmt.Errorf("%w: no quote recorded for vendor %d", ErrInvalidVendorSelection, vendor)
		}
		settle(&rows[i], quote, stamp)
	}
	return rows, nil
}

// UpdateApprovedRate corrects the rate of a decided three-party indent
func UpdateApprovedRate(indents []domain.Indent, number string, rate domain.Number) ([]domain.Indent, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("%w: approved rate must be positive", ErrInvalidDecision)
	}
	rows, err := linesOf(indents, number)
	if err != nil {
		return nil, err
	}
	if !anyOf(rows, StageThreePartyApproval.IsDone) {
		return nil, fmt.Errorf("%w: rate of %s is not approved yet", ErrNotPending, number)
	}
	for i := range rows {
		rows[i].ApprovedRate = rate
	}
	return rows, nil
}

// ApproveStoreOut approves a store-out indent. A zero approvedAt means
// now.
func ApproveStoreOut(indents []domain.Indent, number, approvedBy string, issuedQuantity domain.Number, approvedAt, now time.Time) ([]domain.Indent, error) {
	if strings.TrimSpace(approvedBy) == "" {
		return nil, fmt.Errorf("%w: approver is required", ErrInvalidDecision)
	}
	if issuedQuantity < 0 {
		return nil, fmt.Errorf("%w: issued quantity cannot be negative", ErrInvalidDecision)
	}
	rows, err := pendingLines(indents, number, StageStoreOut)
	if err != nil {
		return nil, err
	}
	if approvedAt.IsZero() {
		approvedAt = now
	}

	stamp := Stamp(approvedAt)
	for i := range rows {
		rows[i].Actual6 = stamp
		rows[i].IssueApprovedBy = approvedBy
		rows[i].IssueStatus = domain.IssueStatusApproved
		rows[i].IssuedQuantity = issuedQuantity
	}
	return rows, nil
}

// RejectStoreOut rejects a store-out indent
func RejectStoreOut(indents []domain.Indent, number string, now time.Time) ([]domain.Indent, error) {
	rows, err := pendingLines(indents, number, StageStoreOut)
	if err != nil {
		return nil, err
	}
	stamp := Stamp(now)
	for i := range rows {
		rows[i].Actual6 = stamp
		rows[i].IssueStatus = domain.IssueStatusRejected
	}
	return rows, nil
}

// MarkIssued records that the store handed over an approved store-out
// indent. A positive issuedQuantity replaces the approved one.
func MarkIssued(indents []domain.Indent, number string, issuedQuantity domain.Number) ([]domain.Indent, error) {
	if issuedQuantity < 0 {
		return nil, fmt.Errorf("%w: issued quantity cannot be negative", ErrInvalidDecision)
	}
	rows, err := linesOf(indents, number)
	if err != nil {
		return nil, err
	}
	approved := func(i domain.Indent) bool {
		return StageStoreOut.IsDone(i) && i.IssueStatus == domain.IssueStatusApproved
	}
	if !anyOf(rows, approved) {
		return nil, fmt.Errorf("%w: %s is not an approved store-out indent", ErrNotPending, number)
	}
	for i := range rows {
		rows[i].IssueStatus = domain.IssueStatusIssued
		if issuedQuantity > 0 {
			rows[i].IssuedQuantity = issuedQuantity
		}
	}
	return rows, nil
}

// Schedule fills the planned column of the stage each line moves into.
// Live sheets compute planned columns with formulas; the local workbook
// has none, so writes against it are scheduled here instead.
func Schedule(rows []domain.Indent) []domain.Indent {
	out := make([]domain.Indent, len(rows))
	copy(out, rows)
	for n := range out {
		i := &out[n]
		switch i.IndentType {
		case domain.IndentTypePurchase:
			fill(&i.Planned1, i.Timestamp)
		case domain.IndentTypeStoreOut:
			fill(&i.Planned6, i.Timestamp)
		}
		if i.IsApproved() {
			fill(&i.Planned2, i.Actual1)
		}
		if i.VendorType == domain.VendorTypeThreeParty {
			fill(&i.Planned3, i.Actual2)
		}
		fill(&i.Planned4, i.Actual3)
		fill(&i.Planned5, i.Actual4)
	}
	return out
}

func fill(planned *string, from string) {
	if *planned == "" && from != "" {
		*planned = from
	}
}

func settle(row *domain.Indent, quote domain.VendorQuote, stamp string) {
	row.ApprovedVendorName = quote.Name
	row.ApprovedRate = quote.Rate
	row.ApprovedPaymentTerm = quote.PaymentTerm
	row.ApprovedDate = stamp
	row.Actual3 = stamp
}

func quoteAt(i domain.Indent, n int) domain.VendorQuote {
	switch n {
	case 1:
		return domain.VendorQuote{Name: i.VendorName1, Rate: i.Rate1, PaymentTerm: i.PaymentTerm1}
	case 2:
		return domain.VendorQuote{Name: i.VendorName2, Rate: i.Rate2, PaymentTerm: i.PaymentTerm2}
	case 3:
		return domain.VendorQuote{Name: i.VendorName3, Rate: i.Rate3, PaymentTerm: i.PaymentTerm3}
	}
	return domain.VendorQuote{}
}

func vendorLabel(vendorType string) string {
	if vendorType == "" {
		return "unapproved"
	}
	return strings.ToLower(vendorType)
}

// linesOf copies every line of the indent
func linesOf(indents []domain.Indent, number string) ([]domain.Indent, error) {
	rows := make([]domain.Indent, 0)
	for _, i := range indents {
		if i.IndentNumber == number {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrIndentNotFound, number)
	}
	return rows, nil
}

// pendingLines copies every line of the indent, provided at least one of
// them waits in the stage
func pendingLines(indents []domain.Indent, number string, s Stage) ([]domain.Indent, error) {
	rows, err := linesOf(indents, number)
	if err != nil {
		return nil, err
	}
	if !anyOf(rows, s.IsPending) {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotPending, number, s)
	}
	return rows, nil
}

func anyOf(rows []domain.Indent, pred func(domain.Indent) bool) bool {
	for _, r := range rows {
		if pred(r) {
			return true
		}
	}
	return false
}
