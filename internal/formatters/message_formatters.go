package formatters

import (
	"fmt"
	"strings"

	"orderbot/internal/models"
	"orderbot/internal/session"
	"orderbot/internal/utils"
)

// EscapeMarkdown экранирует специальные символы для Telegram Markdown (старый стиль).
func EscapeMarkdown(text string) string {
	var replacer = strings.NewReplacer(
		"_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[",
	)
	return replacer.Replace(text)
}

// FormatLineItem: "LIGHT (200x100) - 2 ta - 700,000 so'm". Цена указана за единицу.
func FormatLineItem(li models.LineItem) string {
	return fmt.Sprintf("%s (%s) - %d ta - %s", li.Product, li.Size, li.Quantity, FormatMoney(li.UnitPrice))
}

// FormatProducts склеивает позиции через "; ". Так же строка сохраняется в БД и в таблицу.
func FormatProducts(lines []models.LineItem) string {
	parts := make([]string, 0, len(lines))
	for _, li := range lines {
		parts = append(parts, FormatLineItem(li))
	}
	return strings.Join(parts, "; ")
}

func numberedProducts(lines []models.LineItem) string {
	var b strings.Builder
	for i, li := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, EscapeMarkdown(FormatLineItem(li)))
	}
	return b.String()
}

// FormatSumConfirm - вопрос "Summa to'g'rimi?" по неподтвержденной позиции.
// После ручной смены цены итог подписывается как новый.
func FormatSumConfirm(li models.LineItem, overridden bool) string {
	totalLabel := "Umumiy summa"
	if overridden {
		totalLabel = "Yangi umumiy summa"
	}
	return fmt.Sprintf(
		"💰 *Mahsulot:* %s\n📐 *O'lcham:* %s\n🔢 *Soni:* %d\n💰 *%s:* %s\n\n✅ *Summa to'g'rimi?*",
		EscapeMarkdown(li.Product), EscapeMarkdown(li.Size), li.Quantity, totalLabel, FormatMoney(li.Total()),
	)
}

// FormatPriceOverridePrompt показывает текущую цену за единицу и просит новую.
func FormatPriceOverridePrompt(li models.LineItem) string {
	return fmt.Sprintf("❌ %s mahsuloti uchun hozirgi narxi: %s.\nO'zgartirish narxini kiriting:",
		EscapeMarkdown(li.Product), FormatMoney(li.UnitPrice))
}

// FormatOrderSummary форматирует итоговую сводку незавершенного заказа перед финальным подтверждением.
// Суммы считаются заново по текущим позициям.
func FormatOrderSummary(o *session.WorkingOrder) string {
	var b strings.Builder
	b.WriteString("📦 *Sizning buyurtmangiz:*\n\n")
	fmt.Fprintf(&b, "*Mahsulotlar:*\n%s\n\n", numberedProducts(o.Lines))
	fmt.Fprintf(&b, "💰 *Umumiy summa:* %s\n", FormatMoney(o.Total()))
	fmt.Fprintf(&b, "💵 *Oldindan to'lov:* %s\n", FormatMoney(o.Prepayment))
	fmt.Fprintf(&b, "💳 *Qoldiq to'lov:* %s\n", FormatMoney(o.Remaining()))
	writeCustomerBlock(&b, o.CustomerName, o.CustomerSurname, o.Phone, o.Location, o.Address, o.DeliveryTime, o.Comments)
	b.WriteString("\n📜 *Ma'lumotlar to'g'rimi?*")
	return b.String()
}

func writeCustomerBlock(b *strings.Builder, name, surname, phone, location, address, delivery, comments string) {
	fmt.Fprintf(b, "👤 *Mijoz:* %s %s\n", EscapeMarkdown(name), EscapeMarkdown(surname))
	fmt.Fprintf(b, "📱 *Telefon:* %s\n", EscapeMarkdown(phone))
	fmt.Fprintf(b, "🏠 *Manzil:* %s - %s\n", EscapeMarkdown(location), EscapeMarkdown(address))
	fmt.Fprintf(b, "⏰ *Yetkazib berish muddati:* %s\n", EscapeMarkdown(delivery))
	if comments != "" {
		fmt.Fprintf(b, "📝 *Qo'shimcha izohlar:* %s\n", EscapeMarkdown(comments))
	}
}

// FormatNewOrderNotice - уведомление администраторам и в группу о сохраненном заказе.
func FormatNewOrderNotice(acct models.Account, order models.PersistedOrder) string {
	products := order.Products
	if len(order.Items) > 0 {
		products = FormatProducts(order.Items)
	}

	var b strings.Builder
	b.WriteString("📦 *Yangi buyurtma keldi:*\n\n")
	fmt.Fprintf(&b, "*Foydalanuvchi:* @%s (ID: %d)\n", EscapeMarkdown(acct.Login), acct.ID)
	fmt.Fprintf(&b, "*Buyurtma ID:* %d\n", order.ID)
	fmt.Fprintf(&b, "*Mahsulotlar:*\n%s\n", EscapeMarkdown(products))
	fmt.Fprintf(&b, "💰 *Umumiy summa:* %s\n", FormatMoney(order.TotalPrice))
	fmt.Fprintf(&b, "💵 *Oldindan to'lov:* %s\n", FormatMoney(order.Payment))
	fmt.Fprintf(&b, "💳 *Qoldiq to'lov:* %s\n", FormatMoney(order.RemainingPayment))
	writeCustomerBlock(&b, order.CustomerName, order.CustomerSurname, order.PhoneNumber, order.Location,
		order.DetailedAddress, order.DeliveryTime, order.AdditionalComments)
	fmt.Fprintf(&b, "📅 *Buyurtma qilingan sana:* %s", order.OrderDate.UTC().Format("2006-01-02 15:04:05"))
	return b.String()
}

// FormatLoginNotice - сообщение администраторам о новом входе в систему.
func FormatLoginNotice(acct models.Account) string {
	username := utils.DisplayUsername(acct.TelegramUsername.String)
	if username == "" {
		username = "N/A"
	}
	return fmt.Sprintf("📢 *YANGI LOGIN:*\n\n*AKKAUNT:* %s\n*FIO:* %s\n*Telegram ID:* %d\n*Telegram Username:* %s",
		acct.AccountType(), EscapeMarkdown(acct.FullName), acct.TelegramID.Int64, EscapeMarkdown(username))
}

// FormatRebindAlert - предупреждение администраторам, привязанным к прежнему Telegram ID админа.
func FormatRebindAlert(login string, newChannelID int64) string {
	return fmt.Sprintf("🔔 *Diqqat!* Admin @%s tizimga yangi Telegram ID bilan kirdi: %d", EscapeMarkdown(login), newChannelID)
}

// FormatOrdersList - список заказов продавца (кнопка "Buyurtmalarni Ko'rish").
func FormatOrdersList(orders []models.PersistedOrder) string {
	var b strings.Builder
	b.WriteString("📦 *Sizning buyurtmalaringiz:*\n")
	for _, o := range orders {
		b.WriteString("\n")
		writeOrderBlock(&b, o)
	}
	return b.String()
}

func writeOrderBlock(b *strings.Builder, o models.PersistedOrder) {
	fmt.Fprintf(b, "*Buyurtma ID:* %d\n", o.ID)
	fmt.Fprintf(b, "*Mahsulotlar:* %s\n", EscapeMarkdown(o.Products))
	fmt.Fprintf(b, "*Umumiy summa:* %s\n", FormatMoney(o.TotalPrice))
	fmt.Fprintf(b, "*To'langan:* %s\n", FormatMoney(o.Payment))
	fmt.Fprintf(b, "*Qoldiq:* %s\n", FormatMoney(o.RemainingPayment))
	fmt.Fprintf(b, "*Mijoz:* %s %s\n", EscapeMarkdown(o.CustomerName), EscapeMarkdown(o.CustomerSurname))
	fmt.Fprintf(b, "*Telefon:* %s\n", EscapeMarkdown(o.PhoneNumber))
	fmt.Fprintf(b, "*Manzil:* %s - %s\n", EscapeMarkdown(o.Location), EscapeMarkdown(o.DetailedAddress))
	fmt.Fprintf(b, "*Yetkazib berish:* %s\n", EscapeMarkdown(o.DeliveryTime))
	fmt.Fprintf(b, "*Sana:* %s\n", o.OrderDate.UTC().Format("2006-01-02 15:04"))
}

// FormatAllOrdersDigest группирует заказы по логину продавца. Ожидает заказы, отсортированные по логину.
func FormatAllOrdersDigest(orders []models.OrderWithAccount) string {
	var b strings.Builder
	b.WriteString("📦 *Barcha buyurtmalar:*\n")
	current := ""
	for _, o := range orders {
		if o.Login != current {
			current = o.Login
			fmt.Fprintf(&b, "\n*Foydalanuvchi:* @%s (*FIO:* %s, *Rol:* %s)\n",
				EscapeMarkdown(o.Login), EscapeMarkdown(o.FullName), EscapeMarkdown(o.Role))
		}
		b.WriteString("\n")
		writeOrderBlock(&b, o.PersistedOrder)
	}
	return b.String()
}

// FormatHelpForward - обращение продавца, пересылаемое администраторам.
func FormatHelpForward(acct models.Account, channelID int64, text string) string {
	return fmt.Sprintf("🆘 *Yordam so'rovi*\n\n*Login:* @%s\n*FIO:* %s\n*Telegram ID:* %d\n\n%s",
		EscapeMarkdown(acct.Login), EscapeMarkdown(acct.FullName), channelID, EscapeMarkdown(text))
}

// FormatAccountDraft - сводка нового аккаунта перед подтверждением в /add_user.
func FormatAccountDraft(d session.AccountDraft) string {
	return fmt.Sprintf("🆕 *Yangi foydalanuvchi:*\n\n*Login:* %s\n*FIO:* %s\n*Telefon:* %s\n*Rol:* %s\n\n✅ *Ma'lumotlar to'g'rimi?*",
		EscapeMarkdown(d.Login), EscapeMarkdown(d.FullName), EscapeMarkdown(d.PhoneNumber), EscapeMarkdown(d.Role))
}
