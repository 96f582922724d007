package sharelink

import (
	"encoding/base64"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/consult-hub/pkg/core/model"
)

func sampleRecords() []model.ConsultationRequest {
	completedAt := int64(1736300000000)
	return []model.ConsultationRequest{
		{
			ID: "b", StudentName: "김민수", StudentClass: "2-1", Subject: "수학",
			AssignedInstructorName: "이선생", RequesterName: "박선생",
			AvailableTimeSlots: []string{"월-1", "수-3"},
			Status:             model.StatusCompleted, CreatedAt: 2,
			InstructorNotes: "진로 상담 완료", CompletedAt: &completedAt,
		},
		{ID: "a", StudentName: "Kim", AvailableTimeSlots: []string{"Mon-1"}, Status: model.StatusPending, CreatedAt: 1},
	}
}

func TestEncodeDecode(t *testing.T) {
	records := sampleRecords()

	encoded, err := Encode(records)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, records, decoded)
}

func TestEncode_BrowserCompatible(t *testing.T) {
	records := []model.ConsultationRequest{{
		ID: "a", StudentName: "김 민수", Reason: "50% off, more?", Status: model.StatusPending, CreatedAt: 7,
	}}

	encoded, err := Encode(records)
	require.NoError(t, err)

	// atob accepts only the standard alphabet with padding
	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	text := string(raw)
	assert.True(t, strings.HasPrefix(text, "%5B%7B"), text)
	assert.NotContains(t, text, " ")
	assert.NotContains(t, text, "+")
	assert.Contains(t, text, "%20")

	// decodeURIComponent
	plain, err := url.PathUnescape(text)
	require.NoError(t, err)
	assert.Contains(t, plain, `"studentName":"김 민수"`)
	assert.Contains(t, plain, `"reason":"50% off, more?"`)
}

func TestLinkAndFromURL(t *testing.T) {
	records := sampleRecords()

	link, err := Link("https://school.example/consult?tab=1", records)
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "1", u.Query().Get("tab"))
	assert.NotEmpty(t, u.Query().Get(Param))

	got, err := FromURL(link)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestDecode_PercentEncodedPayload(t *testing.T) {
	// base64 over the percent-encoded JSON, as browser clients produce
	escaped := url.PathEscape(`[{"id":"x","studentName":"김","availableTimeSlots":["월-1"],"status":"PENDING","createdAt":5}]`)
	param := base64.StdEncoding.EncodeToString([]byte(escaped))

	got, err := Decode(url.QueryEscape(param))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "x", got[0].ID)
	assert.Equal(t, "김", got[0].StudentName)
	assert.Equal(t, []string{"월-1"}, got[0].AvailableTimeSlots)
}

func TestDecode_StandardBase64WithSpaces(t *testing.T) {
	// '+' read back from a query string arrives as a space
	payload := []byte(`[{"id":"p","studentName":"~~~>>>???","createdAt":1}]`)
	param := base64.StdEncoding.EncodeToString(payload)
	require.Contains(t, param, "+")

	got, err := Decode(strings.ReplaceAll(param, "+", " "))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{}, got[0].AvailableTimeSlots)
}

func TestDecode_Failures(t *testing.T) {
	tests := []struct {
		name  string
		param string
	}{
		{name: "empty", param: ""},
		{name: "not base64", param: "***"},
		{name: "not json", param: base64.RawURLEncoding.EncodeToString([]byte("hello"))},
		{name: "json object", param: base64.RawURLEncoding.EncodeToString([]byte(`{"id":"a"}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.param)
			assert.Error(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestFromURL_NoData(t *testing.T) {
	_, err := FromURL("https://school.example/consult")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestEncode_Nil(t *testing.T) {
	encoded, err := Encode(nil)
	require.NoError(t, err)

	got, err := Decode(encoded)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}
