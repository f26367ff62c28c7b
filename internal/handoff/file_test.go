package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"bcflow/internal/components/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*FileStore, *telemetry.Recorder) {
	rec := &telemetry.Recorder{}
	return NewFileStore(filepath.Join(t.TempDir(), "extracted_data.json"), rec), rec
}

func TestAppendNRecords(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	const n = 7
	for i := 0; i < n; i++ {
		key := KeyRFQNo
		if i%2 == 1 {
			key = KeyVendorNo
		}
		err := store.Append(ctx, NewRecord(key, fmt.Sprintf("X%d", i)))
		require.NoError(t, err)
	}

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, n)

	latest, ok, err := store.Latest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, NewRecord(KeyRFQNo, "X6"), latest)
}

func TestFileFormat(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, NewRecord(KeyVendorNo, "V13694")))
	require.NoError(t, store.Append(ctx, NewRecord(KeyRFQNo, "RFQ007686")))

	contents, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	expected := `[
    {
        "vendor_no": "V13694"
    },
    {
        "RFQ_no": "RFQ007686"
    }
]`
	if diff := cmp.Diff(expected, string(contents)); diff != "" {
		t.Fatalf("unexpected file contents (-want +got):\n%s", diff)
	}
}

func TestLatestAbsent(t *testing.T) {
	testCases := []struct {
		name     string
		contents *string
	}{
		{name: "missing file"},
		{name: "empty file", contents: ptr("")},
		{name: "whitespace", contents: ptr("  \n")},
		{name: "empty array", contents: ptr("[]")},
		{name: "malformed", contents: ptr(`[{"RFQ_no": "RFQ1"`)},
		{name: "scalar", contents: ptr(`42`)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store, _ := newTestStore(t)
			if tc.contents != nil {
				require.NoError(t, os.WriteFile(store.Path(), []byte(*tc.contents), 0600))
			}

			rec, ok, err := store.Latest(context.Background())
			require.NoError(t, err)
			require.False(t, ok)
			require.Nil(t, rec)

			_, err = LatestValue(context.Background(), store, KeyRFQNo)
			require.ErrorIs(t, err, ErrNoEntry)
		})
	}
}

func TestMalformedFileIsReportedAndReplaced(t *testing.T) {
	store, tel := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0600))

	require.NoError(t, store.Append(ctx, NewRecord(KeyVendorNo, "V1")))
	require.True(t, tel.Has("warning", "file-store.read"))

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Equal(t, []Record{NewRecord(KeyVendorNo, "V1")}, all)
}

func TestSingleObjectIsNotALog(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"vendor_no": "V9"}`), 0600))

	_, ok, err := store.Latest(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = LatestValue(ctx, store, KeyVendorNo)
	require.ErrorIs(t, err, ErrNoEntry)

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	// appending keeps the object as the first record
	require.NoError(t, store.Append(ctx, NewRecord(KeyRFQNo, "RFQ9")))
	all, err = store.All(ctx)
	require.NoError(t, err)
	require.Equal(t, []Record{NewRecord(KeyVendorNo, "V9"), NewRecord(KeyRFQNo, "RFQ9")}, all)
}

func TestNonObjectElementsKeepPosition(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte(`[{"RFQ_no": "RFQ1", "n": 3}, "junk"]`), 0600))

	all, err := store.All(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Record{{KeyRFQNo: "RFQ1"}, {}}, all)

	_, err = LatestValue(context.Background(), store, KeyRFQNo)
	require.ErrorIs(t, err, ErrKeyMissing)
}

func TestLatestNeverMergesRecords(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, NewRecord(KeyRFQNo, "RFQ1")))
	require.NoError(t, store.Append(ctx, NewRecord(KeyVendorNo, "V2")))

	_, err := LatestValue(ctx, store, KeyRFQNo)
	require.ErrorIs(t, err, ErrKeyMissing)

	v, err := LatestValue(ctx, store, KeyVendorNo)
	require.NoError(t, err)
	require.Equal(t, "V2", v)
}

func TestAppendRejectsInvalidRecords(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, rec := range []Record{
		nil,
		{},
		{KeyRFQNo: "RFQ1", KeyVendorNo: "V1"},
		{KeyRFQNo: ""},
		{"": "RFQ1"},
	} {
		err := store.Append(ctx, rec)
		require.True(t, errors.Is(err, ErrInvalidRecord), "record %v", rec)
	}

	_, err := os.Stat(store.Path())
	require.True(t, os.IsNotExist(err))
}

func TestAppendCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "nested", "data.json")
	store := NewFileStore(path, &telemetry.Recorder{})
	require.NoError(t, store.Append(context.Background(), NewRecord(KeyVendorNo, "V1")))

	var decoded []map[string]string
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(contents, &decoded))
	require.Equal(t, []map[string]string{{KeyVendorNo: "V1"}}, decoded)
}

func TestLookup(t *testing.T) {
	v, ok := Lookup(NewRecord(KeyRFQNo, "RFQ3"), KeyRFQNo)
	require.True(t, ok)
	require.Equal(t, "RFQ3", v)

	_, ok = Lookup(nil, KeyRFQNo)
	require.False(t, ok)
	_, ok = Lookup(Record{KeyRFQNo: ""}, KeyRFQNo)
	require.False(t, ok)
}

func ptr(s string) *string {
	return &s
}
