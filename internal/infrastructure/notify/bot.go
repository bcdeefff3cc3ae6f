package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/id"
	"rezerve/internal/domain/catalogs/branch"
	domainnotify "rezerve/internal/domain/notify"
	"rezerve/internal/domain/reservation"
	"rezerve/pkg/logger"
)

const pollTimeoutSec = 30

// BranchResolver maps a Telegram chat to its branch.
type BranchResolver interface {
	FindByChatID(ctx context.Context, chatID string) (*branch.Branch, error)
}

// ReservationCommands is the slice of the reservation service the bot uses.
type ReservationCommands interface {
	GetByID(ctx context.Context, reservationID id.ID) (*reservation.Reservation, error)
	ListUpcoming(ctx context.Context, branchID id.ID, limit int) ([]*reservation.Reservation, error)
	Cancel(ctx context.Context, reservationID id.ID, withRefund bool, operator string) (*reservation.Reservation, error)
}

// BotPoller long-polls the Telegram API and executes group commands:
// /rez lists upcoming reservations, /detay shows one, /iptal cancels
// keeping the advance, /iade cancels with full refund.
type BotPoller struct {
	client       *TelegramClient
	branches     BranchResolver
	reservations ReservationCommands
	offset       int64
}

// NewBotPoller creates a new command poller.
func NewBotPoller(client *TelegramClient, branches BranchResolver, reservations ReservationCommands) *BotPoller {
	return &BotPoller{
		client:       client,
		branches:     branches,
		reservations: reservations,
	}
}

// Run polls for updates until the context is canceled.
func (b *BotPoller) Run(ctx context.Context) {
	logger.Info(ctx, "telegram bot poller started")

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "telegram bot poller stopped")
			return
		default:
		}

		if !b.client.HasToken() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(30 * time.Second):
			}
			continue
		}

		updates, err := b.client.GetUpdates(ctx, b.offset, pollTimeoutSec)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn(ctx, "telegram poll failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			b.offset = update.UpdateID + 1
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update)
		}
	}
}

func (b *BotPoller) handleMessage(ctx context.Context, update Update) {
	msg := update.Message
	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") {
		return
	}

	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	parts := strings.Fields(text)
	command := parts[0]
	// Strip the bot mention in group chats: /rez@SomeBot
	if i := strings.Index(command, "@"); i > 0 {
		command = command[:i]
	}
	args := parts[1:]

	logger.Info(ctx, "bot command received", "command", command, "chat_id", chatID)

	var reply string
	switch command {
	case "/rez":
		reply = b.cmdList(ctx, chatID)
	case "/detay":
		reply = b.cmdDetail(ctx, chatID, args)
	case "/iptal":
		reply = b.cmdCancel(ctx, chatID, args, false)
	case "/iade":
		reply = b.cmdCancel(ctx, chatID, args, true)
	default:
		return
	}

	if reply == "" {
		return
	}
	if err := b.client.SendMessage(ctx, chatID, reply); err != nil {
		logger.Warn(ctx, "bot reply failed", "chat_id", chatID, "error", err)
	}
}

func (b *BotPoller) resolveBranch(ctx context.Context, chatID string) (*branch.Branch, string) {
	br, err := b.branches.FindByChatID(ctx, chatID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, "❌ Bu Telegram grubu herhangi bir şube ile ilişkilendirilmemiş."
		}
		logger.Error(ctx, "branch lookup failed", "chat_id", chatID, "error", err)
		return nil, "❌ Bir hata oluştu, lütfen tekrar deneyin."
	}
	return br, ""
}

func parseReservationArg(args []string, usage string) (id.ID, string) {
	if len(args) == 0 {
		return id.Nil(), usage
	}
	rid, err := id.Parse(args[0])
	if err != nil {
		return id.Nil(), usage
	}
	return rid, ""
}

func (b *BotPoller) cmdList(ctx context.Context, chatID string) string {
	br, errMsg := b.resolveBranch(ctx, chatID)
	if errMsg != "" {
		return errMsg
	}

	items, err := b.reservations.ListUpcoming(ctx, br.ID, 50)
	if err != nil {
		logger.Error(ctx, "list upcoming failed", "branch_id", br.ID, "error", err)
		return "❌ Bir hata oluştu, lütfen tekrar deneyin."
	}
	if len(items) == 0 {
		return "📅 Önümüzdeki günlerde hiç rezervasyon bulunmuyor."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 <b>%s - Yaklaşan Rezervasyonlar</b>\n", br.Name)
	sb.WriteString("━━━━━━━━━━━━━━━━━━━━━━━")

	var currentDate string
	for _, r := range items {
		dateStr := r.Date.Format("02.01.2006")
		if dateStr != currentDate {
			currentDate = dateStr
			fmt.Fprintf(&sb, "\n\n🗓️ <b>%s</b>", dateStr)
		}

		paymentEmoji := map[reservation.PaymentStatus]string{
			reservation.StatusPending: "⏳",
			reservation.StatusAdvance: "💰",
			reservation.StatusPaid:    "✅",
		}[r.PaymentStatus]
		if paymentEmoji == "" {
			paymentEmoji = "❓"
		}

		peopleEmoji := "👥"
		if r.NumPeople == 1 {
			peopleEmoji = "👤"
		}

		fmt.Fprintf(&sb, "\n⏰ <b>%s</b> | %s | %s %d | %s | 📞 %s | 🆔 <code>%s</code>",
			r.Time, paymentEmoji, peopleEmoji, r.NumPeople,
			r.CustomerName, r.CustomerPhone, r.ID)
	}

	sb.WriteString("\n\n━━━━━━━━━━━━━━━━━━━━━━━")
	sb.WriteString("\n<i>📝 Detaylar için: /detay [id]</i>")
	sb.WriteString("\n<i>❌ İptal için: /iptal [id] veya /iade [id]</i>")
	return sb.String()
}

func (b *BotPoller) cmdDetail(ctx context.Context, chatID string, args []string) string {
	br, errMsg := b.resolveBranch(ctx, chatID)
	if errMsg != "" {
		return errMsg
	}

	rid, errMsg := parseReservationArg(args, "❌ Kullanım: /detay [rezervasyon_id]")
	if errMsg != "" {
		return errMsg
	}

	r, err := b.reservations.GetByID(ctx, rid)
	if err != nil || r.BranchID != br.ID {
		return fmt.Sprintf("❌ Rezervasyon bulunamadı: #%s", rid)
	}

	header := "🎫 REZERVASYON DETAYLARI 🎫"
	cancelStatus := ""
	if r.IsCanceled {
		if r.CancelType != nil && *r.CancelType == reservation.CancelRefund {
			header = "🔙 İPTAL EDİLMİŞ REZERVASYON (TAM İADE) 🔙"
			cancelStatus = "⚠️ <b>Bu rezervasyon TAM İADE ile iptal edilmiştir.</b>\n"
		} else {
			header = "❌ İPTAL EDİLMİŞ REZERVASYON ❌"
			cancelStatus = "⚠️ <b>Bu rezervasyon iptal edilmiştir (ön ödeme iade edilmedi).</b>\n"
		}
	}

	advance := r.AdvanceAmount()
	remaining := r.RemainingAmount()

	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s</b>\n", header)
	sb.WriteString("━━━━━━━━━━━━━━━━━━━━━━━\n\n")
	fmt.Fprintf(&sb, "🆔 <b>Rezervasyon ID:</b> #%s\n", r.ID)
	sb.WriteString(cancelStatus)
	fmt.Fprintf(&sb, "👤 <b>Müşteri:</b> %s\n", r.CustomerName)
	fmt.Fprintf(&sb, "📞 <b>Telefon:</b> %s\n", r.CustomerPhone)
	fmt.Fprintf(&sb, "🗓️ <b>Tarih:</b> %s\n", r.Date.Format("02.01.2006"))
	fmt.Fprintf(&sb, "⏰ <b>Saat:</b> %s\n", r.Time)
	fmt.Fprintf(&sb, "👥 <b>Kişi Sayısı:</b> %d\n\n", r.NumPeople)
	fmt.Fprintf(&sb, "💵 <b>Toplam Tutar:</b> ₺%s\n", r.TotalPrice.StringFixed(2))
	fmt.Fprintf(&sb, "💰 <b>Ödeme Durumu:</b> %s\n", domainnotify.PaymentStatusLabel(string(r.PaymentStatus)))
	fmt.Fprintf(&sb, "💳 <b>Ödeme Tipi:</b> %s\n\n", domainnotify.PaymentTypeLabel(string(r.PaymentType)))
	fmt.Fprintf(&sb, "💸 <b>Avans Ödeme:</b> %%%s (₺%s)\n", r.AdvancePct.String(), advance.StringFixed(2))
	fmt.Fprintf(&sb, "💱 <b>Kalan Tutar:</b> ₺%s\n\n", remaining.StringFixed(2))
	fmt.Fprintf(&sb, "🏢 <b>Şube:</b> %s\n", br.Name)
	fmt.Fprintf(&sb, "⏱ <b>Oluşturma:</b> %s\n", r.CreatedAt.Format("02.01.2006 15:04"))
	sb.WriteString("━━━━━━━━━━━━━━━━━━━━━━━")
	return sb.String()
}

func (b *BotPoller) cmdCancel(ctx context.Context, chatID string, args []string, withRefund bool) string {
	br, errMsg := b.resolveBranch(ctx, chatID)
	if errMsg != "" {
		return errMsg
	}

	usage := "Lütfen geçerli bir rezervasyon ID'si girin. Örnek: /iptal [id]"
	if withRefund {
		usage = "Lütfen geçerli bir rezervasyon ID'si girin. Örnek: /iade [id]"
	}
	rid, errMsg := parseReservationArg(args, usage)
	if errMsg != "" {
		return errMsg
	}

	existing, err := b.reservations.GetByID(ctx, rid)
	if err != nil || existing.BranchID != br.ID {
		return fmt.Sprintf("❌ Rezervasyon bulunamadı: #%s", rid)
	}

	operator := fmt.Sprintf("Telegram (%s)", br.Name)
	if _, err := b.reservations.Cancel(ctx, rid, withRefund, operator); err != nil {
		if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeReservationCanceled {
			return fmt.Sprintf("⚠️ Rezervasyon zaten iptal edilmiş: #%s", rid)
		}
		logger.Error(ctx, "bot cancel failed", "reservation_id", rid, "error", err)
		return "❌ İptal işlemi başarısız oldu, lütfen tekrar deneyin."
	}

	// The cancellation event itself notifies the group through the outbox.
	return ""
}
