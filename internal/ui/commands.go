package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pocketspice/internal/session"
	"github.com/five82/pocketspice/internal/spice"
	"github.com/five82/pocketspice/internal/state"
)

// Messages

type tickMsg time.Time

type snapshotMsg struct {
	data state.Snapshot
	auth session.Snapshot
}

// loadedMsg reports a finished listing or match request.
type loadedMsg struct {
	op   session.Op
	err  error
	data state.Snapshot
	auth session.Snapshot
}

type detailLoadedMsg struct {
	id   int64
	err  error
	data state.Snapshot
	auth session.Snapshot
}

type authDoneMsg struct {
	op   session.Op
	err  error
	auth session.Snapshot
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store, sess *session.Manager) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg{data: store.Snapshot(), auth: authSnapshot(sess)}
	}
}

func loadListingCmd(ctx context.Context, store *state.Store, api spice.API, sess *session.Manager, l state.Listing) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		err := store.Load(ctx, api, l)
		syncSession(ctx, sess, err)
		return loadedMsg{op: session.OpLoad, err: err, data: store.Snapshot(), auth: authSnapshot(sess)}
	}
}

func loadDetailCmd(ctx context.Context, store *state.Store, api spice.API, sess *session.Manager, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		err := store.LoadDetail(ctx, api, id)
		syncSession(ctx, sess, err)
		return detailLoadedMsg{id: id, err: err, data: store.Snapshot(), auth: authSnapshot(sess)}
	}
}

func matchCmd(ctx context.Context, store *state.Store, api spice.API, sess *session.Manager, ingredients string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		err := store.LoadMatch(ctx, api, ingredients)
		syncSession(ctx, sess, err)
		return loadedMsg{op: session.OpMatch, err: err, data: store.Snapshot(), auth: authSnapshot(sess)}
	}
}

func loginCmd(ctx context.Context, sess *session.Manager, req spice.LoginRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		err := sess.Login(ctx, req)
		return authDoneMsg{op: session.OpLogin, err: err, auth: sess.Snapshot()}
	}
}

func logoutCmd(ctx context.Context, sess *session.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		sess.Logout(ctx)
		return authDoneMsg{op: session.OpLogout, auth: sess.Snapshot()}
	}
}

// syncSession lets the session notice a token the client dropped on 401.
func syncSession(ctx context.Context, sess *session.Manager, err error) {
	if sess == nil || err == nil {
		return
	}
	sess.CheckAuth(ctx)
}

func authSnapshot(sess *session.Manager) session.Snapshot {
	if sess == nil {
		return session.Snapshot{}
	}
	return sess.Snapshot()
}
