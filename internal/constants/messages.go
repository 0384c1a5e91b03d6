package constants

// Тексты, отправляемые пользователям бота (узбекский).
// User-facing bot texts (Uzbek).
const (
	MSG_GENERIC_ERROR   = "❌ Xatolik yuz berdi. Iltimos, keyinroq qayta urinib ko'ring."
	MSG_NOT_LOGGED_IN   = "❌ Siz tizimga kirmagansiz. Iltimos, /start buyrug'ini yuboring."
	MSG_NOT_ADMIN       = "❌ Siz admin emas ekansiz."
	MSG_UNKNOWN_COMMAND = "❌ Bu komanda ruxsat etilmagan yoki mavjud emas."
	MSG_CHOOSE_BUTTON   = "❌ Iltimos, tugmalardan birini tanlang."
	MSG_CHOOSE_YES_NO   = "❌ Iltimos, faqat '✅ Ha' yoki '❌ Yo'q' tugmalarini tanlang."
	MSG_CHOOSE_OPTION   = "❌ Iltimos, mavjud variantlardan birini tanlang."
	MSG_DIGITS_ONLY     = "❌ Iltimos, faqat raqam kiriting."
)

// Login
const (
	MSG_WELCOME_CHOOSE_LOGIN = "👋 Assalomu alaykum! Iltimos, tizimga kirish turini tanlang:"
	MSG_ASK_ADMIN_LOGIN      = "🔑 Iltimos, admin loginini kiriting:"
	MSG_ASK_USER_LOGIN       = "👤 Iltimos, username ni kiriting:"
	MSG_ASK_PASSWORD         = "🔒 Parolingizni kiriting:"
	MSG_AUTH_FAILED          = "❌ Login yoki parol noto'g'ri. Iltimos, qayta urinib ko'ring yoki admin bilan bog'laning."
	MSG_ADMIN_LOGGED_IN      = "✅ Admin sifatida tizimga muvaffaqiyatli kirdingiz.\n📦 Barcha buyurtmalarni ko'rish uchun /all_orders, yangi foydalanuvchi qo'shish uchun /add_user buyrug'ini yuboring."
	MSG_USER_LOGGED_IN       = "✅ Tizimga muvaffaqiyatli kirdingiz.\n📦 Buyurtmalarni ko'rish yoki yangi buyurtma qo'shish uchun quyidagi tugmalardan birini tanlang:"
	MSG_ADMIN_ALREADY_IN     = "✅ Siz admin sifatida tizimga kirdingiz.\n📦 Barcha buyurtmalarni ko'rish uchun /all_orders, yangi foydalanuvchi qo'shish uchun /add_user buyrug'ini yuboring."
	MSG_USER_ALREADY_IN      = "✅ Siz allaqachon tizimga kirdingiz.\n📦 Buyurtmalarni ko'rish yoki yangi buyurtma qo'shish uchun quyidagi tugmalardan birini tanlang:"
)

// Order form
const (
	MSG_ASK_PRODUCT          = "📦 *Mahsulotni tanlang:*"
	MSG_BAD_PRODUCT          = "❌ Iltimos, menyudan mavjud mahsulotni tanlang."
	MSG_ASK_SIZE             = "📐 *O'lchamni tanlang:*"
	MSG_BAD_SIZE             = "❌ Iltimos, menyudagi o'lchamlardan birini tanlang."
	MSG_ASK_CUSTOM_SIZE      = "❓ Nestandart o'lchamni shu shablon asosida kiriting: 200x500\nMisol uchun: 200x500 ✅"
	MSG_EMPTY_SIZE           = "❌ O'lcham bo'sh bo'lishi mumkin emas. Iltimos, o'lchamni kiriting."
	MSG_ASK_QUANTITY         = "🔢 *Nechta dona buyurtma bermoqchisiz?*"
	MSG_BAD_QUANTITY         = "❌ Miqdor musbat butun son bo'lishi kerak. Iltimos, qayta kiriting."
	MSG_BAD_SIZE_FORMAT      = "❌ O'lcham noto'g'ri formatda. Iltimos, qayta urinib ko'ring."
	MSG_BAD_PRICE            = "❌ Narx ijobiy son bo'lishi kerak. Iltimos, qayta kiriting."
	MSG_LINE_ADDED           = "✅ Mahsulot qo'shildi.\n📦 Yana mahsulot qo'shish yoki buyurtmani yakunlashni tanlang:"
	MSG_ASK_CUSTOMER_NAME    = "📛 *Mijozning ismini kiriting:*"
	MSG_EMPTY_CUSTOMER_NAME  = "❌ Mijoz ismi bo'sh bo'lishi mumkin emas. Iltimos, ismini kiriting."
	MSG_ASK_CUSTOMER_SURNAME = "📛 *Mijozning familiyasini kiriting:*"
	MSG_EMPTY_SURNAME        = "❌ Mijoz familiyasi bo'sh bo'lishi mumkin emas. Iltimos, familiyasini kiriting."
	MSG_ASK_CUSTOMER_PHONE   = "📱 *Mijozning telefon raqamini kiriting (misol uchun 123456789 yoki 987654321):*"
	MSG_EMPTY_PHONE          = "❌ Telefon raqam bo'sh bo'lishi mumkin emas. Iltimos, telefon raqamini kiriting."
	MSG_ASK_LOCATION         = "🏠 *Mijoz qaysi viloyat yoki shahardan buyurtma qildi?*"
	MSG_ASK_ADDRESS          = "🏡 *Manzilni batafsil kiriting:*"
	MSG_EMPTY_ADDRESS        = "❌ Manzil bo'sh bo'lishi mumkin emas. Iltimos, manzilni kiriting."
	MSG_ASK_DELIVERY_TIME    = "⏰ *Yetkazib berish muddati qachon?* Tanlang yoki kiriting."
	MSG_BAD_DELIVERY_TIME    = "❌ Iltimos, mavjud variantlardan birini tanlang yoki 'Boshqa sana kiritmoqchiman' ni tanlang."
	MSG_ASK_CUSTOM_DELIVERY  = "📅 *Yetkazib berish sanasini kiriting (har qanday matn):*"
	MSG_EMPTY_DELIVERY       = "❌ Yetkazib berish muddati bo'sh bo'lishi mumkin emas. Iltimos, ma'lumot kiriting."
	MSG_DELIVERY_SAVED       = "✅ Kiritingiz qabul qilindi va saqlandi: '%s'"
	MSG_ASK_PREPAYMENT       = "💵 *Mijoz qancha oldindan to'lov qildi? (so'mda kiriting):*"
	MSG_BAD_PREPAYMENT       = "❌ Iltimos, to'lov miqdorini faqat musbat raqamlarda kiriting."
	MSG_ASK_COMMENTS         = "📝 *Qo'shimcha izohlaringiz bo'lsa, yozib qoldiring. Agar izoh yo'q bo'lsa, 'Yo'q' deb yozing:*"
	MSG_ORDER_SAVED          = "✅ Buyurtma muvaffaqiyatli saqlandi! 😊"
	MSG_ORDER_SAVE_FAILED    = "❌ Buyurtmani saqlashda xatolik yuz berdi. Iltimos, '✅ Ha' tugmasini bosib qayta urinib ko'ring."
	MSG_ORDER_DISCARDED      = "❌ Buyurtma saqlanmadi.\n📦 Yana buyurtma qo'shishni yoki buyurtmalarni ko'rishni tanlang:"
	MSG_ORDER_NEXT_ACTION    = "📦 *Yana buyurtma qo'shish yoki buyurtmalarni ko'rishni tanlang:*"
)

// Orders listing
const (
	MSG_NO_ORDERS_YET    = "📭 Siz hali birorta ham buyurtma bermagansiz."
	MSG_NO_ORDERS_AT_ALL = "✅ Hozircha buyurtmalar mavjud emas."
	MSG_MY_ORDERS_CSV    = "📄 Sizning buyurtmalaringiz:"
	MSG_ALL_ORDERS_XLSX  = "📊 Barcha buyurtmalar (Excel)"
	MSG_SEND_FILE_FAILED = "❌ Buyurtmalarni yuborishda xatolik yuz berdi."
)

// Account provisioning
const (
	MSG_ADD_USER_ASK_LOGIN     = "🆕 *Yangi foydalanuvchini qo'shish uchun login ni kiriting* (loginga uning Telegram usernamesini kiritishingiz tavsiya etiladi):"
	MSG_ADD_USER_LOGIN_COMMAND = "❌ Login komanda sifatida qabul qilinmaydi. Iltimos, boshqa login tanlang."
	MSG_ADD_USER_LOGIN_EMPTY   = "❌ Login bo'sh bo'lishi mumkin emas. Iltimos, login kiriting."
	MSG_ADD_USER_LOGIN_TAKEN   = "❌ Bu login allaqachon olingan. Iltimos, boshqa login tanlang."
	MSG_ADD_USER_ASK_FULL_NAME = "👤 *FIO* ni kiriting:"
	MSG_ADD_USER_EMPTY_NAME    = "❌ FIO bo'sh bo'lishi mumkin emas. Iltimos, FIO ni kiriting."
	MSG_ADD_USER_ASK_PHONE     = "📱 *Telefon raqamini kiriting (9 raqam):*"
	MSG_ADD_USER_ASK_ROLE      = "👑 *Rolni tanlang:*"
	MSG_ADD_USER_BAD_ROLE      = "❌ Noto'g'ri rol. Iltimos, 'admin' yoki 'sotuvchi' ni tanlang."
	MSG_ADD_USER_ASK_PASSWORD  = "🔒 *Parolni kiriting:*"
	MSG_ADD_USER_SHORT_PASS    = "❌ Parol kamida 4 ta belgidan iborat bo'lishi kerak. Iltimos, qayta kiriting."
	MSG_ADD_USER_CREATED       = "✅ Yangi foydalanuvchi muvaffaqiyatli qo'shildi."
	MSG_ADD_USER_FAILED        = "❌ Foydalanuvchini qo'shishda xatolik yuz berdi."
	MSG_ADD_USER_CANCELLED     = "❌ Yangi foydalanuvchi qo'shilmadi."
	MSG_ADD_USER_INVITE        = "📲 Yangi foydalanuvchi uchun kirish havolasi:\n%s"
)

// Kick / help
const (
	MSG_KICK_USAGE       = "❌ Iltimos, Telegram ID ni to'liq kiriting.\nMisol: /kick_user 123456789\nTelegram ID ni topish uchun Telegramdan @userinfobot ni foydalaning."
	MSG_KICK_NOT_NUMERIC = "❌ Telegram ID faqat raqamlardan iborat bo'lishi kerak."
	MSG_KICK_DONE        = "✅ Telegram ID %d bilan foydalanuvchi tizimdan chiqarildi."
	MSG_KICK_NOT_FOUND   = "❌ Telegram ID %d bo'yicha foydalanuvchi topilmadi yoki chiqarishda xatolik yuz berdi."
	MSG_KICKED_NOTICE    = "❌ Sizning akkauntingiz admin tomonidan tizimdan chiqarildi."
	MSG_HELP_ASK         = "📬 Iltimos, adminlarga yuboriladigan xabaringizni kiriting:"
	MSG_HELP_EMPTY       = "❌ Xabar bo'sh bo'lishi mumkin emas. Iltimos, xabaringizni kiriting."
	MSG_HELP_NO_ADMINS   = "❌ Hozircha adminlar mavjud emas."
	MSG_HELP_SENT        = "✅ Xabaringiz adminlarga yuborildi. Tez orada javob olasiz."
)

// BotCommandDescriptions - описания команд для SetMyCommands, в порядке отображения.
var BotCommandDescriptions = [][2]string{
	{"start", "Botni boshlash"},
	{"zakaz", "Yangi buyurtma qo'shish"},
	{"my_orders", "O'z buyurtmalarini ko'rish"},
	{"admin", "Admin sifatida kirish"},
	{"add_user", "Yangi foydalanuvchi qo'shish (Admin)"},
	{"all_orders", "Barcha buyurtmalarni ko'rish (Admin)"},
	{"kick_user", "Foydalanuvchini chiqarish (Admin)"},
	{"help", "Adminlarga yordam so'rash"},
}
