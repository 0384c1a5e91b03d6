package session

// AccountDraft - данные нового аккаунта, собираемые в диалоге /add_user.
type AccountDraft struct {
	Login        string
	FullName     string
	PhoneNumber  string
	Role         string
	// PasswordHash - bcrypt-хэш, пароль в открытом виде не хранится.
	PasswordHash string
}

// FormScratch хранит промежуточные ответы служебных диалогов (вход, добавление пользователя).
// FormScratch holds answers of the non-order dialogs between messages.
type FormScratch struct {
	// LoginFlow - "admin" или "regular" после выбора типа входа.
	LoginFlow string
	Login     string
	Draft     AccountDraft
}
