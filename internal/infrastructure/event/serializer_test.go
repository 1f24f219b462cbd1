package event

import (
	"context"
	"testing"

	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newSerializerTestAsset(t *testing.T) *asset.Asset {
	t.Helper()
	tenantID := uuid.New()
	category, err := asset.NewCategory(tenantID, "Computers")
	require.NoError(t, err)
	a, err := asset.NewAsset(tenantID, asset.NewAssetInput{
		Code:          "ASSET/2023/00001",
		Name:          "Laptop",
		Category:      category,
		Currency:      valueobject.USD,
		PurchaseValue: decimal.NewFromInt(1200),
		PurchaseDate:  valueobject.MustParseDate("2023-01-10"),
	})
	require.NoError(t, err)
	return a
}

func TestAssetEventSerializer_RoundTrip(t *testing.T) {
	s := NewAssetEventSerializer()
	a := newSerializerTestAsset(t)
	moveID := uuid.New()
	line := &asset.DepreciationLine{
		Sequence:         3,
		Amount:           decimal.RequireFromString("33.3333"),
		DepreciationDate: valueobject.MustParseDate("2023-03-31"),
		MoveID:           &moveID,
	}
	line.ID = uuid.New()
	original := asset.NewDepreciationLinePostedEvent(a, line)

	data, err := s.Serialize(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"depreciation_date":"2023-03-31"`)

	decoded, err := s.Deserialize(asset.EventTypeDepreciationLinePosted, data)
	require.NoError(t, err)
	posted, ok := decoded.(*asset.DepreciationLinePostedEvent)
	require.True(t, ok)

	assert.Equal(t, original.EventID(), posted.EventID())
	assert.Equal(t, a.ID, posted.AggregateID())
	assert.Equal(t, a.TenantID, posted.TenantID())
	assert.Equal(t, line.ID, posted.LineID)
	assert.True(t, posted.Amount.Equal(line.Amount))
	assert.True(t, posted.DepreciationDate.Equal(line.DepreciationDate))
	require.NotNil(t, posted.MoveID)
	assert.Equal(t, moveID, *posted.MoveID)
}

func TestAssetEventSerializer_KnowsEveryAssetEvent(t *testing.T) {
	assert.Equal(t, []string{
		asset.EventTypeAssetClosed,
		asset.EventTypeAssetReopened,
		asset.EventTypeAssetValidated,
		asset.EventTypeDepreciationBoardComputed,
		asset.EventTypeDepreciationLineCancelled,
		asset.EventTypeDepreciationLinePosted,
	}, NewAssetEventSerializer().RegisteredTypes())
}

func TestEventSerializer_UnknownType(t *testing.T) {
	s := NewEventSerializer()

	_, err := s.Serialize(newTestEvent("Unregistered", uuid.New()))
	assert.Error(t, err)

	_, err = s.Deserialize("Unregistered", []byte(`{}`))
	assert.Error(t, err)
}

func TestEventSerializer_MalformedPayload(t *testing.T) {
	_, err := NewAssetEventSerializer().Deserialize(asset.EventTypeAssetClosed, []byte(`{"automatic":"yes"`))
	assert.Error(t, err)
}

func TestAuditLogHandler(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := NewAuditLogHandler(NewAssetEventSerializer(), zap.New(core))
	assert.Nil(t, h.EventTypes())

	a := newSerializerTestAsset(t)
	require.NoError(t, h.Handle(context.Background(), asset.NewAssetClosedEvent(a, asset.AssetStateOpen, true)))
	require.NoError(t, h.Handle(context.Background(), newTestEvent("Unregistered", a.TenantID)))

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "domain event", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, asset.EventTypeAssetClosed, fields["event_type"])
	assert.Equal(t, a.ID.String(), fields["aggregate_id"])
	assert.Contains(t, fields["payload"], `"automatic":true`)

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.NotContains(t, entries[1].ContextMap(), "payload")
}
