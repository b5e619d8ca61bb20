package daf

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMinimalSPKFile hand-packs the smallest possible DAF/SPK byte buffer:
// one file record, one summary record holding a single ND=2/NI=6 summary,
// one name record, and a handful of data doubles placed exactly where that
// summary's start_idx/end_idx point.
func buildMinimalSPKFile(startEpoch, endEpoch float64, dataType int32, segData []float64) []byte {
	buf := make([]byte, 4*RecordLen)
	order := binary.LittleEndian

	copy(buf[0:4], "DAF/")
	copy(buf[4:8], "SPK ")
	order.PutUint32(buf[fileRecordNDOffset:], 2)
	order.PutUint32(buf[fileRecordNIOffset:], 6)
	copy(buf[fileRecordNameOffset:fileRecordNameOffset+fileRecordNameLen], "TEST SPK")
	order.PutUint32(buf[fileRecordFwdOffset:], 2)
	order.PutUint32(buf[fileRecordBwdOffset:], 2)
	order.PutUint32(buf[fileRecordFreeOffset:], 394)
	copy(buf[fileRecordFormatOffset:fileRecordFormatOffset+fileRecordFormatLen], "LTL-IEEE")

	// Summary record at record 2 (bytes [1024:2048)).
	summaryRec := buf[RecordLen : 2*RecordLen]
	putFloat64(order, summaryRec[0:8], 0)  // next
	putFloat64(order, summaryRec[8:16], 0) // prev
	putFloat64(order, summaryRec[16:24], 1) // n_summaries

	payload := summaryRec[24:]
	startIdx := int32(384)
	endIdx := startIdx + int32(len(segData)) - 1
	putFloat64(order, payload[0:8], startEpoch)
	putFloat64(order, payload[8:16], endEpoch)
	order.PutUint32(payload[16:20], 399)      // target_id
	order.PutUint32(payload[20:24], 3)        // center_id
	order.PutUint32(payload[24:28], 1)        // frame_id
	order.PutUint32(payload[28:32], uint32(dataType))
	order.PutUint32(payload[32:36], uint32(startIdx))
	order.PutUint32(payload[36:40], uint32(endIdx))

	// Name record at record 3 (bytes [2048:3072)).
	nameRec := buf[2*RecordLen : 3*RecordLen]
	copy(nameRec[0:40], "EARTH") // rest of the 40-byte slot stays zero-padded

	// Data record at record 4 (bytes [3072:4096)), starting exactly at
	// element 384 (384*8 == 3072, the start of record 4).
	dataRec := buf[3*RecordLen : 4*RecordLen]
	for i, v := range segData {
		putFloat64(order, dataRec[i*8:i*8+8], v)
	}

	return buf
}

func putFloat64(order binary.ByteOrder, b []byte, v float64) {
	order.PutUint64(b, math.Float64bits(v))
}

func TestOpenDecodesHeader(t *testing.T) {
	buf := buildMinimalSPKFile(0, 1000, DataTypeChebyshevStub, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	f, err := Open(buf)
	require.NoError(t, err)

	h := f.Header()
	assert.Equal(t, KindSPK, h.Kind)
	assert.Equal(t, 2, h.ND)
	assert.Equal(t, 6, h.NI)
	assert.Equal(t, "TEST SPK", h.InternalName)
	assert.True(t, h.LittleEndianOnFile)
}

func TestSummariesDecodesOneSPKSummary(t *testing.T) {
	segData := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	buf := buildMinimalSPKFile(0, 1000, DataTypeChebyshevStub, segData)
	f, err := Open(buf)
	require.NoError(t, err)

	summaries, err := f.Summaries()
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	spk, err := summaries[0].AsSPK()
	require.NoError(t, err)
	assert.Equal(t, "EARTH", spk.Name)
	assert.Equal(t, float64(0), spk.StartEpochTDBSec)
	assert.Equal(t, float64(1000), spk.EndEpochTDBSec)
	assert.Equal(t, int32(399), spk.TargetID)
	assert.Equal(t, int32(3), spk.CenterID)

	data, err := f.Doubles(int(spk.StartIdx), int(spk.EndIdx))
	require.NoError(t, err)
	assert.Equal(t, segData, data)
}

func TestCheckIntegrityPassesOnWellFormedFile(t *testing.T) {
	buf := buildMinimalSPKFile(0, 1000, DataTypeChebyshevStub, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	f, err := Open(buf)
	require.NoError(t, err)
	assert.NoError(t, f.CheckIntegrity())
}

func TestCheckIntegrityCatchesNonFiniteSegmentData(t *testing.T) {
	buf := buildMinimalSPKFile(0, 1000, DataTypeChebyshevStub, []float64{1, 2, math.NaN(), 4, 5, 6, 7, 8})
	f, err := Open(buf)
	require.NoError(t, err)
	assert.Error(t, f.CheckIntegrity())
}

func TestOpenRejectsBadMagic(t *testing.T) {
	buf := buildMinimalSPKFile(0, 1000, DataTypeChebyshevStub, []float64{1})
	copy(buf[0:4], "XXX/")
	_, err := Open(buf)
	require.Error(t, err)
}

func TestOpenRejectsTruncatedFile(t *testing.T) {
	_, err := Open(make([]byte, 10))
	require.Error(t, err)
}

func TestOpenRejectsOutOfBoundsForwardPointer(t *testing.T) {
	buf := buildMinimalSPKFile(0, 1000, DataTypeChebyshevStub, []float64{1})
	binary.LittleEndian.PutUint32(buf[fileRecordFwdOffset:], 999)
	_, err := Open(buf)
	require.Error(t, err)
}

// DataTypeChebyshevStub is a placeholder data_type for segments this test
// package builds by hand; it is never decoded here, only round-tripped
// through the summary/doubles accessors.
const DataTypeChebyshevStub = 2
