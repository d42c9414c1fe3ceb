package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/reel/internal/movieverse"
	"github.com/five82/reel/internal/nav"
)

const (
	fieldUsername = "username"
	fieldEmail    = "email"
	fieldPassword = "password"
	fieldOTP      = "otp"
	fieldConfirm  = "confirm"
)

// Login

func (m *Model) enterLogin() tea.Cmd {
	m.login = newForm(
		field(fieldUsername, "Username", "your username", false),
		field(fieldPassword, "Password", "", true),
	)
	if name := m.prefs.LastUsername; name != "" {
		m.login.set(fieldUsername, name)
		m.login.setFocus(1)
	}
	return nil
}

func (m *Model) loginKey(msg tea.KeyMsg) tea.Cmd {
	f := &m.login
	switch {
	case key.Matches(msg, m.keys.Register):
		return m.navigate(nav.RouteRegister, nav.Params{}, nil)
	case key.Matches(msg, m.keys.Forgot):
		return m.navigate(nav.RouteForgotPassword, nav.Params{}, nil)
	case key.Matches(msg, m.keys.NextField):
		f.next()
		return nil
	case key.Matches(msg, m.keys.PrevField):
		f.prev()
		return nil
	case key.Matches(msg, m.keys.Confirm):
		if !f.onLast() {
			f.next()
			return nil
		}
		if f.busy {
			return nil
		}
		username, password := f.value(fieldUsername), f.raw(fieldPassword)
		if username == "" || password == "" {
			f.err = "Enter your username and password."
			return nil
		}
		f.clearErrors()
		f.busy = true
		return loginCmd(m.ctx, m.session, username, password)
	}
	return f.update(msg)
}

func (m *Model) onLogin(msg loginMsg) tea.Cmd {
	m.login.busy = false
	if !msg.ok {
		if msg.err == nil || movieverse.IsAuthError(msg.err) {
			m.login.err = "Invalid username or password."
		} else {
			m.login.err = movieverse.UserMessage(msg.err)
		}
		m.login.set(fieldPassword, "")
		m.login.setFocus(1)
		return nil
	}
	if m.prefs.LastUsername != msg.username {
		m.prefs.LastUsername = msg.username
		m.savePrefs()
	}
	m.setFlash("Welcome, "+m.username()+".", false)
	m.router.Redirect(nav.RouteHome)
	return m.enter()
}

func (m Model) renderLogin() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	return m.login.View(styles, bg, m.contentWidth())
}

// Register

func (m *Model) enterRegister() tea.Cmd {
	m.register = newForm(
		field(fieldUsername, "Username", "3 to 150 characters", false),
		field(fieldEmail, "Email", "you@example.com", false),
		field(fieldPassword, "Password", "at least 8 characters", true),
	)
	return nil
}

func (m *Model) registerKey(msg tea.KeyMsg) tea.Cmd {
	f := &m.register
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.goBack()
	case key.Matches(msg, m.keys.CheckName):
		return m.checkUsername()
	case key.Matches(msg, m.keys.NextField):
		cmd := m.leaveField()
		f.next()
		return cmd
	case key.Matches(msg, m.keys.PrevField):
		cmd := m.leaveField()
		f.prev()
		return cmd
	case key.Matches(msg, m.keys.Confirm):
		if !f.onLast() {
			cmd := m.leaveField()
			f.next()
			return cmd
		}
		if f.busy {
			return nil
		}
		req := movieverse.RegisterRequest{
			Username: f.value(fieldUsername),
			Email:    f.value(fieldEmail),
			Password: f.raw(fieldPassword),
		}
		if err := movieverse.ValidateRegistration(req); err != nil {
			f.fail(err)
			return nil
		}
		f.clearErrors()
		f.busy = true
		return registerCmd(m.ctx, m.session, req)
	}
	if f.focused() == fieldUsername {
		f.setNote(fieldUsername, "")
	}
	return f.update(msg)
}

// leaveField checks the username when focus moves off it.
func (m *Model) leaveField() tea.Cmd {
	if m.register.focused() != fieldUsername {
		return nil
	}
	return m.checkUsername()
}

func (m *Model) checkUsername() tea.Cmd {
	name := m.register.value(fieldUsername)
	if len(name) < 3 {
		return nil
	}
	m.register.setNote(fieldUsername, "Checking...")
	return availabilityCmd(m.ctx, m.session, name)
}

func (m *Model) onAvailability(msg availabilityMsg) {
	if m.register.value(fieldUsername) != msg.username {
		return
	}
	switch {
	case msg.err != nil:
		m.register.setNote(fieldUsername, "")
	case msg.available:
		m.register.setNote(fieldUsername, "✓ "+msg.username+" is available")
	default:
		m.register.setNote(fieldUsername, "✗ "+msg.username+" is taken")
	}
}

func (m *Model) onRegister(msg registerMsg) tea.Cmd {
	if msg.err != nil {
		m.register.fail(msg.err)
		return nil
	}
	m.register.busy = false
	m.prefs.LastUsername = msg.username
	m.setFlash("Account created. Log in to continue.", false)
	m.router.Redirect(nav.RouteLogin)
	return m.enter()
}

func (m Model) renderRegister() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	return m.register.View(styles, bg, m.contentWidth())
}

// Password reset: request a code, verify it, then set a new password.

type forgotState struct {
	step     int
	username string
	form     form
}

const (
	resetRequest = iota
	resetVerify
	resetPassword
)

func (m *Model) enterForgot() tea.Cmd {
	m.forgot = forgotState{step: resetRequest}
	m.forgot.form = newForm(field(fieldUsername, "Username", "the account to reset", false))
	if name := m.prefs.LastUsername; name != "" {
		m.forgot.form.set(fieldUsername, name)
	}
	return nil
}

func (m *Model) forgotKey(msg tea.KeyMsg) tea.Cmd {
	f := &m.forgot.form
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.goBack()
	case key.Matches(msg, m.keys.NextField):
		f.next()
		return nil
	case key.Matches(msg, m.keys.PrevField):
		f.prev()
		return nil
	case key.Matches(msg, m.keys.Confirm):
		if !f.onLast() {
			f.next()
			return nil
		}
		if f.busy {
			return nil
		}
		return m.submitForgot()
	}
	return f.update(msg)
}

func (m *Model) submitForgot() tea.Cmd {
	f := &m.forgot.form
	f.clearErrors()
	ctx, sess := m.ctx, m.session
	switch m.forgot.step {
	case resetRequest:
		name := f.value(fieldUsername)
		if name == "" {
			f.err = "Enter your username."
			return nil
		}
		m.forgot.username = name
		f.busy = true
		return resetStepCmd(resetRequest, func() error { return sess.ForgotPassword(ctx, name) })
	case resetVerify:
		name, otp := m.forgot.username, f.value(fieldOTP)
		if otp == "" {
			f.err = "Enter the code from your email."
			return nil
		}
		f.busy = true
		return resetStepCmd(resetVerify, func() error { return sess.VerifyOTP(ctx, name, otp) })
	default:
		name, pw := m.forgot.username, f.raw(fieldPassword)
		if len(pw) < 8 {
			f.errs = movieverse.FieldErrors{fieldPassword: {"Must be at least 8 characters."}}
			return nil
		}
		if pw != f.raw(fieldConfirm) {
			f.errs = movieverse.FieldErrors{fieldConfirm: {"Passwords do not match."}}
			return nil
		}
		f.busy = true
		return resetStepCmd(resetPassword, func() error { return sess.ResetPassword(ctx, name, pw) })
	}
}

func (m *Model) onResetStep(msg resetStepMsg) tea.Cmd {
	if msg.step != m.forgot.step {
		return nil
	}
	if msg.err != nil {
		m.forgot.form.fail(msg.err)
		return nil
	}
	switch msg.step {
	case resetRequest:
		m.forgot.step = resetVerify
		m.forgot.form = newForm(field(fieldOTP, "Code", "6-digit code from your email", false))
		m.setFlash("We sent a code to the email on file.", false)
	case resetVerify:
		m.forgot.step = resetPassword
		m.forgot.form = newForm(
			field(fieldPassword, "New password", "at least 8 characters", true),
			field(fieldConfirm, "Confirm password", "", true),
		)
		m.setFlash("Code accepted.", false)
	default:
		m.prefs.LastUsername = m.forgot.username
		m.setFlash("Password updated. Log in with your new password.", false)
		m.router.Redirect(nav.RouteLogin)
		return m.enter()
	}
	return nil
}

func (m Model) renderForgot() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	width := m.contentWidth()
	steps := []string{"1 Request code", "2 Verify", "3 New password"}
	var header string
	for i, s := range steps {
		style := styles.FaintText
		if i == m.forgot.step {
			style = styles.AccentText.Bold(true)
		}
		if i > 0 {
			header += bg.Render("  ›  ", styles.FaintText)
		}
		header += bg.Render(s, style)
	}
	return bg.FillLine(header, width) + "\n" + bg.FillLine("", width) + "\n" +
		m.forgot.form.View(styles, bg, width)
}
