// Package ofx parses OFX/QFX bank statements into transaction candidates
// for classification and duplicate checking.
package ofx

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/shopspring/decimal"
)

// Parser implements OFX/QFX statement parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocess fixes common formatting issues in OFX files before handing
// them to the parser library.
func (p *Parser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// Mixed-case SEVERITY values (should be INFO, WARN, or ERROR). SGML
	// statements leave the element unclosed, so the closing tag is optional.
	severityRegex := regexp.MustCompile(`(?i)(<SEVERITY>)(Info|Warn|Error)\b`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML-style files sometimes drop the closing angle bracket on a
	// bare opening tag at end of line.
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// Parse reads an OFX/QFX statement and returns one candidate per
// transaction, in statement order. Amounts are absolute values: the
// statement sign convention (negative debits) is stripped because the
// expense ledger records magnitudes.
func (p *Parser) Parse(reader io.Reader) ([]model.Candidate, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX statement: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(raw))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX statement: %w", err)
	}

	var candidates []model.Candidate

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			for _, tx := range stmt.BankTranList.Transactions {
				candidates = append(candidates, p.convert(tx))
			}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			for _, tx := range stmt.BankTranList.Transactions {
				candidates = append(candidates, p.convert(tx))
			}
		}
	}

	return candidates, nil
}

// convert maps one OFX transaction to a candidate.
func (p *Parser) convert(tx ofxgo.Transaction) model.Candidate {
	amount := decimal.NewFromBigInt(tx.TrnAmt.Num(), 0).
		Div(decimal.NewFromBigInt(tx.TrnAmt.Denom(), 0))
	if amount.Sign() < 0 {
		amount = amount.Neg()
	}

	cand := model.Candidate{
		Title:  cleanTitle(tx),
		Amount: amount,
		Date:   model.DateOnly(tx.DtPosted.Time),
	}
	if tx.Memo != "" && string(tx.Memo) != cand.Title {
		cand.Description = strings.TrimSpace(string(tx.Memo))
	}
	return cand
}

// cleanTitle extracts a usable title from OFX payee/name/memo fields and
// strips processor noise.
func cleanTitle(tx ofxgo.Transaction) string {
	title := string(tx.Name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		title = string(tx.Payee.Name)
	} else if tx.Memo != "" && isGenericDescription(title) {
		title = string(tx.Memo)
	}

	title = strings.TrimSpace(title)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(title), prefix) {
			title = title[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " date fragments from card processors.
	if len(title) > 5 && title[2] == '/' && title[5] == ' ' {
		title = strings.TrimSpace(title[6:])
	}

	return title
}

// isGenericDescription checks if a transaction name is too generic to be
// a useful title.
func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
