package config

// MailConfig carries the SMTP settings and sender identity used by the
// email service. StaticAttachment is the local file sent by the
// attachment test endpoint.
type MailConfig struct {
	Host             string
	Port             int
	Username         string
	Password         string
	From             string
	StaticAttachment string
}

// LoadMailConfig reads MAIL_* variables. From defaults to the SMTP username,
// which is how most providers expect the envelope sender to be set.
func LoadMailConfig() MailConfig {
	mc := MailConfig{
		Host:             envStr("MAIL_HOST", "localhost"),
		Port:             envInt("MAIL_PORT", 587),
		Username:         envStr("MAIL_USERNAME", ""),
		Password:         envStr("MAIL_PASSWORD", ""),
		From:             envStr("MAIL_FROM", ""),
		StaticAttachment: envStr("MAIL_STATIC_ATTACHMENT", "data/query-roles.txt"),
	}
	if mc.From == "" {
		mc.From = mc.Username
	}
	return mc
}
