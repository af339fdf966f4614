package i18n

import "golang.org/x/text/language"

// DefaultCatalog returns the built-in English/Indonesian catalog used
// by the admin backend. Audit templates are keyed audit.<entity>.<tag>;
// an action tag without a template here is deliberately never logged.
func DefaultCatalog() *Catalog {
	en := language.English
	id := language.Indonesian

	c := NewCatalog(en)

	c.Add(en, "audit.user.CREATE", "Added user account %s")
	c.Add(id, "audit.user.CREATE", "Menambahkan akun pengguna %s")
	c.Add(en, "audit.user.UPDATE", "Updated user account %s")
	c.Add(id, "audit.user.UPDATE", "Memperbarui akun pengguna %s")
	c.Add(en, "audit.user.DELETE", "Removed user account %s")
	c.Add(id, "audit.user.DELETE", "Menghapus akun pengguna %s")
	c.Add(en, "audit.user.CHPASS", "Changed password for %s")
	c.Add(id, "audit.user.CHPASS", "Mengganti kata sandi %s")
	c.Add(en, "audit.user.ACTIVATE", "Activated account %s")
	c.Add(id, "audit.user.ACTIVATE", "Mengaktifkan akun %s")
	c.Add(en, "audit.user.RESET", "Reset account %s")
	c.Add(id, "audit.user.RESET", "Mereset akun %s")
	c.Add(en, "audit.user.SETROLES", "Changed roles of %s")
	c.Add(id, "audit.user.SETROLES", "Mengubah peran %s")

	c.Add(en, "menu.dashboard", "Dashboard")
	c.Add(id, "menu.dashboard", "Dasbor")
	c.Add(en, "menu.users", "Users")
	c.Add(id, "menu.users", "Pengguna")
	c.Add(en, "menu.roles", "Roles")
	c.Add(id, "menu.roles", "Peran")
	c.Add(en, "menu.audit", "Audit Log")
	c.Add(id, "menu.audit", "Log Audit")

	c.Add(en, "mail.activation.subject", "Activate your account")
	c.Add(id, "mail.activation.subject", "Aktifkan akun Anda")
	c.Add(en, "mail.activation.body", "Hello %s, open %s to set your password.")
	c.Add(id, "mail.activation.body", "Halo %s, buka %s untuk mengatur kata sandi Anda.")
	c.Add(en, "mail.reset.subject", "Reset your password")
	c.Add(id, "mail.reset.subject", "Reset kata sandi Anda")
	c.Add(en, "mail.reset.body", "Hello %s, open %s to choose a new password.")
	c.Add(id, "mail.reset.body", "Halo %s, buka %s untuk memilih kata sandi baru.")

	return c
}
