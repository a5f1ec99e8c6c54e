package i18n

import "github.com/tmsiti/tmsiti-backend/internal/apperr"

var messages = map[apperr.Kind]map[string]string{
	apperr.InvalidCredentials: {
		Uz: "Login yoki parol noto'g'ri",
		Ru: "Неверное имя пользователя или пароль",
		En: "Incorrect username or password",
	},
	apperr.ExpiredToken: {
		Uz: "Token muddati tugagan",
		Ru: "Срок действия токена истёк",
		En: "Token has expired",
	},
	apperr.MalformedToken: {
		Uz: "Token yaroqsiz",
		Ru: "Недействительный токен",
		En: "Invalid token",
	},
	apperr.WrongTokenType: {
		Uz: "Token turi mos emas",
		Ru: "Неверный тип токена",
		En: "Wrong token type",
	},
	apperr.UnknownSubject: {
		Uz: "Foydalanuvchi topilmadi yoki faol emas",
		Ru: "Пользователь не найден или неактивен",
		En: "User not found or inactive",
	},
	apperr.InsufficientRole: {
		Uz: "Huquqlar yetarli emas",
		Ru: "Недостаточно прав",
		En: "Not enough permissions",
	},
	apperr.FileTooLarge: {
		Uz: "Fayl hajmi chegaradan oshgan",
		Ru: "Размер файла превышает допустимый",
		En: "File size exceeds the allowed maximum",
	},
	apperr.UnsupportedType: {
		Uz: "Fayl turi qo'llab-quvvatlanmaydi",
		Ru: "Недопустимый тип файла",
		En: "File type is not allowed",
	},
	apperr.DuplicateUser: {
		Uz: "Bunday login yoki email allaqachon mavjud",
		Ru: "Такое имя пользователя или email уже заняты",
		En: "Username or email already taken",
	},
	apperr.DuplicateCode: {
		Uz: "Bunday hujjat raqami allaqachon mavjud",
		Ru: "Документ с таким кодом уже существует",
		En: "Document code already exists",
	},
	apperr.NotFound: {
		Uz: "Ma'lumot topilmadi",
		Ru: "Запись не найдена",
		En: "Record not found",
	},
	apperr.MethodNotAllowed: {
		Uz: "Bunday so'rov usuli qo'llab-quvvatlanmaydi",
		Ru: "Метод запроса не поддерживается",
		En: "Method not allowed",
	},
	apperr.Internal: {
		Uz: "Ichki server xatosi",
		Ru: "Внутренняя ошибка сервера",
		En: "Internal server error",
	},
}

// Message returns the localized text for an error kind, falling back to
// English, then to the bare kind code.
func Message(kind apperr.Kind, lang string) string {
	byLang, ok := messages[kind]
	if !ok {
		return string(kind)
	}
	if msg, ok := byLang[lang]; ok {
		return msg
	}
	return byLang[En]
}
