package handlers

import (
	"orderbot/internal/constants"
)

// access - минимальный уровень доступа к команде.
type access int

const (
	accessAnyone access = iota
	accessLoggedIn
	accessAdmin
)

// commandAccess - разрешенные команды. Все остальные отклоняются.
var commandAccess = map[string]access{
	constants.CMD_START:      accessAnyone,
	constants.CMD_ADMIN:      accessAnyone,
	constants.CMD_ZAKAZ:      accessLoggedIn,
	constants.CMD_MY_ORDERS:  accessLoggedIn,
	constants.CMD_HELP:       accessLoggedIn,
	constants.CMD_ADD_USER:   accessAdmin,
	constants.CMD_ALL_ORDERS: accessAdmin,
	constants.CMD_KICK_USER:  accessAdmin,
}

// RejectionKind классифицирует отказ в доступе.
type RejectionKind string

const (
	RejectUnknownCommand RejectionKind = "unknown_command"
	RejectNotLoggedIn    RejectionKind = "not_logged_in"
	RejectNotAdmin       RejectionKind = "not_admin"
)

// Rejection - типизированный отказ guard-пайплайна. Text уходит пользователю как есть.
type Rejection struct {
	Kind RejectionKind
	Text string
}

func (r *Rejection) Error() string {
	return string(r.Kind)
}

// commandGuard возвращает отказ или nil, если команда может идти дальше.
type commandGuard func(command string, c caller) *Rejection

// commandGuards выполняются по порядку до первого отказа.
var commandGuards = []commandGuard{
	requireKnownCommand,
	requireLogin,
	requireAdmin,
}

func requireKnownCommand(command string, _ caller) *Rejection {
	if _, ok := commandAccess[command]; !ok {
		return &Rejection{Kind: RejectUnknownCommand, Text: constants.MSG_UNKNOWN_COMMAND}
	}
	return nil
}

func requireLogin(command string, c caller) *Rejection {
	if commandAccess[command] >= accessLoggedIn && !c.Bound {
		return &Rejection{Kind: RejectNotLoggedIn, Text: constants.MSG_NOT_LOGGED_IN}
	}
	return nil
}

func requireAdmin(command string, c caller) *Rejection {
	if commandAccess[command] == accessAdmin && !c.Account.IsAdmin() {
		return &Rejection{Kind: RejectNotAdmin, Text: constants.MSG_NOT_ADMIN}
	}
	return nil
}

// checkCommand прогоняет команду через все guard'ы.
func checkCommand(command string, c caller) *Rejection {
	for _, guard := range commandGuards {
		if rejection := guard(command, c); rejection != nil {
			return rejection
		}
	}
	return nil
}
