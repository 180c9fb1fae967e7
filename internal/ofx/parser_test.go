package ofx

import (
	"strings"
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>POS PURCHASE Whole Foods Market
<MEMO>Grocery run
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-42.00
<FITID>2024012501
<NAME>DEBIT
<MEMO>Shell Gas Station
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>Info
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>Info
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-15.49
<FITID>cc2024011001
<NAME>NETFLIX.COM
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240112120000[0:GMT]
<TRNAMT>30.00
<FITID>cc2024011201
<NAME>REFUND ACME STORE
</STMTTRN>
</BANKTRANLIST>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParseBankStatement(t *testing.T) {
	parser := NewParser()

	candidates, err := parser.Parse(strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	first := candidates[0]
	assert.Equal(t, "STARBUCKS STORE #1234", first.Title)
	assert.Equal(t, "25.5", first.Amount.String(), "debit sign is stripped")
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), first.Date)

	// Processor prefix removed, memo preserved as description.
	second := candidates[1]
	assert.Equal(t, "Whole Foods Market", second.Title)
	assert.Equal(t, "Grocery run", second.Description)

	// A generic NAME falls back to the memo.
	third := candidates[2]
	assert.Equal(t, "Shell Gas Station", third.Title)
}

func TestParseCreditCardStatement(t *testing.T) {
	parser := NewParser()

	candidates, err := parser.Parse(strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "NETFLIX.COM", candidates[0].Title)
	assert.Equal(t, "15.49", candidates[0].Amount.String())

	// Credits come through as positive magnitudes too.
	assert.Equal(t, "REFUND ACME STORE", candidates[1].Title)
	assert.Equal(t, "30", candidates[1].Amount.String())
}

func TestPreprocessSeverity(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "unclosed SGML tag",
			in:   "<SEVERITY>Info\n</STATUS>",
			want: "<SEVERITY>INFO\n</STATUS>",
		},
		{
			name: "closed XML tag",
			in:   "<SEVERITY>Warn</SEVERITY>",
			want: "<SEVERITY>WARN</SEVERITY>",
		},
		{
			name: "already uppercase",
			in:   "<SEVERITY>ERROR\n",
			want: "<SEVERITY>ERROR\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.preprocess(tt.in))
		})
	}
}

func TestParseInvalidContent(t *testing.T) {
	parser := NewParser()

	_, err := parser.Parse(strings.NewReader("this is not an OFX file"))
	assert.Error(t, err)
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name string
		tx   ofxgo.Transaction
		want string
	}{
		{
			name: "payee name preferred over transaction name",
			tx: ofxgo.Transaction{
				Name:  "DEBIT",
				Payee: &ofxgo.Payee{Name: "Corner Bakery"},
			},
			want: "Corner Bakery",
		},
		{
			name: "date fragment stripped",
			tx:   ofxgo.Transaction{Name: "01/15 CORNER BAKERY"},
			want: "CORNER BAKERY",
		},
		{
			name: "processor prefix stripped",
			tx:   ofxgo.Transaction{Name: "CHECK CARD TRADER JOES"},
			want: "TRADER JOES",
		},
		{
			name: "plain name untouched",
			tx:   ofxgo.Transaction{Name: "CORNER BAKERY"},
			want: "CORNER BAKERY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanTitle(tt.tx))
		})
	}
}
