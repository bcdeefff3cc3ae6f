package notify

import (
	"fmt"
	"strings"
)

const divider = "━━━━━━━━━━━━━━━━━━━━━━━"

// PaymentTypeLabel returns the Turkish display label for a payment type.
func PaymentTypeLabel(paymentType string) string {
	switch paymentType {
	case "CASH":
		return "🧾 Nakit"
	case "POS":
		return "💳 Kredi Kartı"
	case "IBAN":
		return "🏦 Havale/EFT"
	case "OTHER":
		return "📝 Diğer"
	}
	return paymentType
}

// PaymentStatusLabel returns the Turkish display label for a payment status.
func PaymentStatusLabel(status string) string {
	switch status {
	case "PENDING":
		return "⏳ Ödeme Bekliyor"
	case "ADVANCE":
		return "💰 Ön Ödeme Yapıldı"
	case "PAID":
		return "✅ Tamamen Ödendi"
	}
	return status
}

// FormatMessage renders the sink message (Telegram HTML) for an event.
func FormatMessage(e Event) string {
	switch e.Kind {
	case EventReservationCreated:
		return formatCreated(e)
	case EventReservationCanceled:
		return formatCanceled(e)
	}
	return ""
}

func formatCreated(e Event) string {
	var b strings.Builder
	b.WriteString("<b>🎉 YENİ REZERVASYON OLUŞTURULDU 🎉</b>\n")
	b.WriteString(divider + "\n\n")
	writeCommon(&b, e)
	fmt.Fprintf(&b, "\n💵 <b>Toplam Ücret:</b> ₺%s\n", e.TotalPrice.StringFixed(2))
	fmt.Fprintf(&b, "💸 <b>Ön Ödeme:</b> ₺%s\n", e.AdvanceAmount.StringFixed(2))
	fmt.Fprintf(&b, "💱 <b>Kalan Tutar:</b> ₺%s\n", e.Remaining.StringFixed(2))
	fmt.Fprintf(&b, "💳 <b>Ödeme Tipi:</b> %s\n", PaymentTypeLabel(e.PaymentType))
	fmt.Fprintf(&b, "📊 <b>Ödeme Durumu:</b> %s\n", PaymentStatusLabel(e.PaymentStatus))
	fmt.Fprintf(&b, "\n🆔 <b>Rezervasyon ID:</b> #%s\n", e.ReservationID)
	b.WriteString(divider + "\n")
	b.WriteString("<i>Bu mesaj otomatik olarak gönderilmiştir.</i>")
	return b.String()
}

func formatCanceled(e Event) string {
	withRefund := e.WithRefund != nil && *e.WithRefund

	var b strings.Builder
	if withRefund {
		b.WriteString("<b>💰 REZERVASYON TAM İADE İLE İPTAL EDİLDİ</b>\n")
	} else {
		b.WriteString("<b>❌ REZERVASYON İPTAL EDİLDİ</b>\n")
	}
	b.WriteString(divider + "\n\n")
	writeCommon(&b, e)
	fmt.Fprintf(&b, "\n💵 <b>Toplam Ücret:</b> ₺%s\n", e.TotalPrice.StringFixed(2))
	if withRefund {
		fmt.Fprintf(&b, "💱 <b>İade Edilen Tutar:</b> ₺%s (Tam İade)\n", e.AdvanceAmount.StringFixed(2))
	} else if e.RetainedAmount != nil && e.RetainedAmount.IsPositive() {
		fmt.Fprintf(&b, "💸 <b>Kesinti Yapılan Tutar:</b> ₺%s\n", e.RetainedAmount.StringFixed(2))
	}
	fmt.Fprintf(&b, "🆔 <b>Rezervasyon ID:</b> #%s\n", e.ReservationID)
	b.WriteString("\n<i>Bu rezervasyon iptal edilmiştir. İlgili randevu saati artık boşta.</i>\n")
	b.WriteString(divider + "\n")
	b.WriteString("<i>Bu mesaj otomatik olarak gönderilmiştir.</i>")
	return b.String()
}

func writeCommon(b *strings.Builder, e Event) {
	fmt.Fprintf(b, "🏢 <b>Şube:</b> %s\n", e.BranchName)
	fmt.Fprintf(b, "👤 <b>Müşteri:</b> %s\n", e.CustomerName)
	fmt.Fprintf(b, "📞 <b>Telefon:</b> %s\n", e.CustomerPhone)
	fmt.Fprintf(b, "👥 <b>Kişi Sayısı:</b> %d\n", e.NumPeople)
	fmt.Fprintf(b, "🗓️ <b>Tarih/Saat:</b> %s | ⏰ %s\n", formatDate(e.Date), e.Time)
	fmt.Fprintf(b, "👨‍💼 <b>Personel:</b> %s\n", e.StaffName)
}

// formatDate converts YYYY-MM-DD to DD.MM.YYYY for display.
func formatDate(isoDate string) string {
	parts := strings.SplitN(isoDate, "-", 3)
	if len(parts) != 3 {
		return isoDate
	}
	return parts[2] + "." + parts[1] + "." + parts[0]
}
