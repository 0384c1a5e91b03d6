package constants

// Состояние по умолчанию: пользователь не заполняет никакую форму.
// Default state: the user is not filling any form.
const STATE_IDLE = "idle"

// Order Creation States
// Состояния создания заказа
const (
	STATE_ORDER_PRODUCT          = "order_product"
	STATE_ORDER_SIZE             = "order_size"
	STATE_ORDER_CUSTOM_SIZE      = "order_custom_size"
	STATE_ORDER_QUANTITY         = "order_quantity"
	STATE_ORDER_SUM_CONFIRM      = "order_sum_confirm"
	STATE_ORDER_PRICE_OVERRIDE   = "order_price_override"
	STATE_ORDER_OVERRIDE_CONFIRM = "order_override_confirm"
	STATE_ORDER_ADD_MORE         = "order_add_more"
	STATE_ORDER_CUSTOMER_NAME    = "order_customer_name"
	STATE_ORDER_CUSTOMER_SURNAME = "order_customer_surname"
	STATE_ORDER_CUSTOMER_PHONE   = "order_customer_phone"
	STATE_ORDER_LOCATION         = "order_location"
	STATE_ORDER_ADDRESS          = "order_address"
	STATE_ORDER_DELIVERY_TIME    = "order_delivery_time"
	STATE_ORDER_CUSTOM_DELIVERY  = "order_custom_delivery"
	STATE_ORDER_PREPAYMENT       = "order_prepayment"
	STATE_ORDER_COMMENTS         = "order_comments"
	STATE_ORDER_FINAL_CONFIRM    = "order_final_confirm"
)

// Login States
// Состояния входа в систему
const (
	STATE_LOGIN_CHOOSE_TYPE    = "login_choose_type"
	STATE_LOGIN_ADMIN_LOGIN    = "login_admin_login"
	STATE_LOGIN_ADMIN_PASSWORD = "login_admin_password"
	STATE_LOGIN_USER_LOGIN     = "login_user_login"
	STATE_LOGIN_USER_PASSWORD  = "login_user_password"
)

// Account Provisioning States (/add_user)
// Состояния добавления аккаунта администратором
const (
	STATE_ADD_USER_LOGIN     = "add_user_login"
	STATE_ADD_USER_FULL_NAME = "add_user_full_name"
	STATE_ADD_USER_PHONE     = "add_user_phone"
	STATE_ADD_USER_ROLE      = "add_user_role"
	STATE_ADD_USER_PASSWORD  = "add_user_password"
	STATE_ADD_USER_CONFIRM   = "add_user_confirm"
)

// STATE_HELP_MESSAGE ожидает текст обращения к администраторам.
const STATE_HELP_MESSAGE = "help_message"

// User Roles
// Роли пользователей
const (
	ROLE_ADMIN  = "admin"
	ROLE_SELLER = "sotuvchi"
)

// Bot commands
// Команды бота
const (
	CMD_START      = "/start"
	CMD_ADMIN      = "/admin"
	CMD_MY_ORDERS  = "/my_orders"
	CMD_ADD_USER   = "/add_user"
	CMD_ALL_ORDERS = "/all_orders"
	CMD_KICK_USER  = "/kick_user"
	CMD_ZAKAZ      = "/zakaz"
	CMD_HELP       = "/help"
)

// Reply keyboard buttons
// Кнопки reply-клавиатур
const (
	BTN_YES             = "✅ Ha"
	BTN_NO              = "❌ Yo'q"
	BTN_ADD_ORDER       = "📦 Buyurtma Qo'shish"
	BTN_VIEW_ORDERS     = "📄 Buyurtmalarni Ko'rish"
	BTN_FINISH_ORDER    = "✅ Buyurtmani Yakunlash"
	BTN_CUSTOM_SIZE     = "Nestandart razmer"
	BTN_ADMIN_LOGIN     = "👑 Admin Login"
	BTN_USER_LOGIN      = "🔑 User Login"
	BTN_TODAY           = "Bugun"
	BTN_TOMORROW        = "Ertaga"
	BTN_CUSTOM_DELIVERY = "Boshqa sana kiritmoqchiman"
)

// SIZE_NOT_APPLICABLE записывается вместо размера для товаров фиксированного размера.
// SIZE_NOT_APPLICABLE is recorded as the size of fixed-size products.
const SIZE_NOT_APPLICABLE = "N/A"

// QuantityButtons - варианты количества на клавиатуре.
var QuantityButtons = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}

// Locations - регионы доставки.
// Locations - delivery regions.
var Locations = []string{
	"Toshkent shahri", "Toshkent viloyati", "Andijon", "Buxoro", "Jizzax", "Qashqadaryo",
	"Navoiy", "Namangan", "Samarqand", "Surxondaryo", "Sirdaryo", "Farg'ona", "Xorazm", "Qoraqalpog'iston",
}

// NoCommentTokens приводятся к пустому комментарию (сравнение без учета регистра).
var NoCommentTokens = []string{"yo'q", "yoq", "yo‘q", "yo`q", "yo’q"}

// DefaultGroupChatID - групповой чат для рассылки новых заказов.
const DefaultGroupChatID int64 = -4607325339

// Bootstrap admin defaults used by run_create_admin.
const (
	BOOTSTRAP_ADMIN_FULL_NAME = "Admin"
	BOOTSTRAP_ADMIN_PHONE     = "900000000"
)

// MinPasswordLength - минимальная длина пароля.
const MinPasswordLength = 4
