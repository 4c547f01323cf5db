//go:build linux

package facade

func defaultBackendKind() string { return "epoll" }
