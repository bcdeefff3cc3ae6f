package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"rezerve/internal/core/id"
	"rezerve/internal/core/types"
)

func sampleEvent(kind string) Event {
	return Event{
		Kind:          kind,
		ReservationID: id.MustParse("018f3c4e-7b00-7000-8000-000000000001"),
		BranchName:    "Merkez",
		StaffName:     "Ayşe Yılmaz",
		CustomerName:  "Ali Vural",
		CustomerPhone: "+90 533 200 0001",
		NumPeople:     4,
		Date:          "2026-09-15",
		Time:          "19:00",
		TotalPrice:    types.MustMoney("1200.00"),
		AdvanceAmount: types.MustMoney("360.00"),
		Remaining:     types.MustMoney("840.00"),
		PaymentType:   "CASH",
		PaymentStatus: "PENDING",
	}
}

func TestFormatCreated(t *testing.T) {
	msg := FormatMessage(sampleEvent(EventReservationCreated))

	assert.Contains(t, msg, "YENİ REZERVASYON OLUŞTURULDU")
	assert.Contains(t, msg, "🏢 <b>Şube:</b> Merkez")
	assert.Contains(t, msg, "👤 <b>Müşteri:</b> Ali Vural")
	assert.Contains(t, msg, "👥 <b>Kişi Sayısı:</b> 4")
	assert.Contains(t, msg, "15.09.2026")
	assert.Contains(t, msg, "⏰ 19:00")
	assert.Contains(t, msg, "₺1200.00")
	assert.Contains(t, msg, "₺360.00")
	assert.Contains(t, msg, "₺840.00")
	assert.Contains(t, msg, "🧾 Nakit")
	assert.Contains(t, msg, "⏳ Ödeme Bekliyor")
}

func TestFormatCanceledRetainsAdvance(t *testing.T) {
	e := sampleEvent(EventReservationCanceled)
	withRefund := false
	retained := types.MustMoney("360.00")
	e.WithRefund = &withRefund
	e.RetainedAmount = &retained

	msg := FormatMessage(e)

	assert.Contains(t, msg, "❌ REZERVASYON İPTAL EDİLDİ")
	assert.Contains(t, msg, "Kesinti Yapılan Tutar:</b> ₺360.00")
	assert.NotContains(t, msg, "TAM İADE")
}

func TestFormatCanceledWithRefund(t *testing.T) {
	e := sampleEvent(EventReservationCanceled)
	withRefund := true
	e.WithRefund = &withRefund

	msg := FormatMessage(e)

	assert.Contains(t, msg, "💰 REZERVASYON TAM İADE İLE İPTAL EDİLDİ")
	assert.Contains(t, msg, "İade Edilen Tutar:</b> ₺360.00 (Tam İade)")
	assert.NotContains(t, msg, "Kesinti Yapılan Tutar")
}

func TestFormatUnknownKind(t *testing.T) {
	assert.Empty(t, FormatMessage(Event{Kind: "reservation.touched"}))
}

func TestPaymentLabels(t *testing.T) {
	assert.Equal(t, "💳 Kredi Kartı", PaymentTypeLabel("POS"))
	assert.Equal(t, "✅ Tamamen Ödendi", PaymentStatusLabel("PAID"))

	// Unknown values pass through untranslated.
	assert.Equal(t, "CHECK", PaymentTypeLabel("CHECK"))
}

func TestFormatDateFallsBackOnMalformed(t *testing.T) {
	e := sampleEvent(EventReservationCreated)
	e.Date = "15 Eylül"

	msg := FormatMessage(e)
	assert.True(t, strings.Contains(msg, "15 Eylül"))
}
