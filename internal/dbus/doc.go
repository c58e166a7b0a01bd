// Package dbus reads the desktop color scheme from the freedesktop
// settings portal (org.freedesktop.portal.Settings) and follows its
// SettingChanged signal.
package dbus
