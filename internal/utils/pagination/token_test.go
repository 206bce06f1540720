package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	txnDate := time.Date(2024, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(txnDate, 42)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedSeq, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, txnDate, decodedDate, "Transaction date should match after decode")
	assert.Equal(t, int64(42), decodedSeq, "Sequence should match after decode")

	// Zero values round-trip as well.
	zeroToken := EncodeToken(time.Time{}, 0)
	decodedZeroDate, decodedZeroSeq, err := DecodeToken(zeroToken)
	assert.NoError(t, err)
	assert.Equal(t, time.Time{}, decodedZeroDate)
	assert.Equal(t, int64(0), decodedZeroSeq)
}

func TestDecodeTokenError(t *testing.T) {
	// Invalid base64
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	// Missing separator
	_, _, err = DecodeToken("MjAyMy0wNS0xNVQwMDowMDowMFo=")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	// Bad date component
	_, _, err = DecodeToken("bm90YWRhdGV8NDI=") // "notadate|42"
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "date parse")

	// Bad sequence component: "2023-05-15T00:00:00Z|abc"
	_, _, err = DecodeToken("MjAyMy0wNS0xNVQwMDowMDowMFp8YWJj")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sequence parse")
}
