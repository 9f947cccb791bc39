// Package sqlitestore keeps the whole-document store contract but backs it
// with SQLite tables, giving Save a real transaction boundary instead of a
// file rename. Load still reads every collection in full and Update still
// runs load-mutate-save as one serialized unit.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/example/antcal/internal/persistence"
	_ "modernc.org/sqlite"
)

// Store implements persistence.Store over a SQLite database.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open connects to the database at dsn and creates the schema when absent.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("sqlitestore: dsn is required")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open %s: %w", dsn, err)
	}
	// The document store is single-writer; extra connections only add lock
	// contention inside SQLite.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	statements := []string{
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT NOT NULL,
			email TEXT NOT NULL,
			password TEXT NOT NULL,
			username TEXT NOT NULL,
			phone TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS calendars (
			calendar_id TEXT NOT NULL,
			calendar_name TEXT NOT NULL,
			calendar_purpose TEXT NOT NULL,
			calendar_color TEXT NOT NULL,
			user_num TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			color TEXT NOT NULL,
			calendar_id TEXT NOT NULL,
			user_num TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			post_num TEXT NOT NULL,
			user_id TEXT NOT NULL,
			calendar_num TEXT NOT NULL,
			post_title TEXT NOT NULL,
			post_content TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS comments (
			comment_num TEXT NOT NULL,
			user_id TEXT NOT NULL,
			post_num TEXT NOT NULL,
			comment_content TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS friends (
			id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			friend_id TEXT NOT NULL,
			status TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS calendar_shares (
			share_id TEXT NOT NULL,
			calendar_id TEXT NOT NULL,
			inviter_id TEXT NOT NULL,
			invitee_id TEXT NOT NULL,
			role TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlitestore: migrate: %w", err)
		}
	}
	return nil
}

// Load reads every collection in rowid (insertion) order.
func (s *Store) Load(ctx context.Context) (persistence.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// Save replaces every collection inside one transaction.
func (s *Store) Save(ctx context.Context, state persistence.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, state)
}

// Update runs the load-mutate-save unit under the store mutex.
func (s *Store) Update(ctx context.Context, mutate func(*persistence.State) error) error {
	if mutate == nil {
		return errors.New("sqlitestore: mutate function is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}
	if err := mutate(&state); err != nil {
		return err
	}
	return s.saveLocked(ctx, state)
}

func (s *Store) loadLocked(ctx context.Context) (persistence.State, error) {
	var state persistence.State
	state.Normalize()

	rows, err := s.db.QueryContext(ctx, `SELECT id, email, password, username, phone FROM users ORDER BY rowid`)
	if err != nil {
		return persistence.State{}, fmt.Errorf("sqlitestore: load users: %w", err)
	}
	for rows.Next() {
		var u persistence.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Password, &u.Username, &u.Phone); err != nil {
			rows.Close()
			return persistence.State{}, fmt.Errorf("sqlitestore: scan user: %w", err)
		}
		state.Users = append(state.Users, u)
	}
	if err := closeRows(rows); err != nil {
		return persistence.State{}, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT calendar_id, calendar_name, calendar_purpose, calendar_color, user_num FROM calendars ORDER BY rowid`)
	if err != nil {
		return persistence.State{}, fmt.Errorf("sqlitestore: load calendars: %w", err)
	}
	for rows.Next() {
		var c persistence.Calendar
		if err := rows.Scan(&c.ID, &c.Name, &c.Purpose, &c.Color, &c.UserNum); err != nil {
			rows.Close()
			return persistence.State{}, fmt.Errorf("sqlitestore: scan calendar: %w", err)
		}
		state.Calendars = append(state.Calendars, c)
	}
	if err := closeRows(rows); err != nil {
		return persistence.State{}, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT event_id, title, content, start_date, end_date, start_time, end_time, color, calendar_id, user_num FROM events ORDER BY rowid`)
	if err != nil {
		return persistence.State{}, fmt.Errorf("sqlitestore: load events: %w", err)
	}
	for rows.Next() {
		var e persistence.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Content, &e.StartDate, &e.EndDate, &e.StartTime, &e.EndTime, &e.Color, &e.CalendarID, &e.UserNum); err != nil {
			rows.Close()
			return persistence.State{}, fmt.Errorf("sqlitestore: scan event: %w", err)
		}
		state.Events = append(state.Events, e)
	}
	if err := closeRows(rows); err != nil {
		return persistence.State{}, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT post_num, user_id, calendar_num, post_title, post_content, created_at FROM posts ORDER BY rowid`)
	if err != nil {
		return persistence.State{}, fmt.Errorf("sqlitestore: load posts: %w", err)
	}
	for rows.Next() {
		var p persistence.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.CalendarNum, &p.Title, &p.Content, &p.CreatedAt); err != nil {
			rows.Close()
			return persistence.State{}, fmt.Errorf("sqlitestore: scan post: %w", err)
		}
		state.Posts = append(state.Posts, p)
	}
	if err := closeRows(rows); err != nil {
		return persistence.State{}, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT comment_num, user_id, post_num, comment_content, created_at FROM comments ORDER BY rowid`)
	if err != nil {
		return persistence.State{}, fmt.Errorf("sqlitestore: load comments: %w", err)
	}
	for rows.Next() {
		var c persistence.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.PostNum, &c.Content, &c.CreatedAt); err != nil {
			rows.Close()
			return persistence.State{}, fmt.Errorf("sqlitestore: scan comment: %w", err)
		}
		state.Comments = append(state.Comments, c)
	}
	if err := closeRows(rows); err != nil {
		return persistence.State{}, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT id, user_id, friend_id, status FROM friends ORDER BY rowid`)
	if err != nil {
		return persistence.State{}, fmt.Errorf("sqlitestore: load friends: %w", err)
	}
	for rows.Next() {
		var f persistence.Friend
		if err := rows.Scan(&f.ID, &f.UserID, &f.FriendID, &f.Status); err != nil {
			rows.Close()
			return persistence.State{}, fmt.Errorf("sqlitestore: scan friend: %w", err)
		}
		state.Friends = append(state.Friends, f)
	}
	if err := closeRows(rows); err != nil {
		return persistence.State{}, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT share_id, calendar_id, inviter_id, invitee_id, role, status, created_at FROM calendar_shares ORDER BY rowid`)
	if err != nil {
		return persistence.State{}, fmt.Errorf("sqlitestore: load calendar shares: %w", err)
	}
	for rows.Next() {
		var sh persistence.CalendarShare
		if err := rows.Scan(&sh.ID, &sh.CalendarID, &sh.InviterID, &sh.InviteeID, &sh.Role, &sh.Status, &sh.CreatedAt); err != nil {
			rows.Close()
			return persistence.State{}, fmt.Errorf("sqlitestore: scan calendar share: %w", err)
		}
		state.Shares = append(state.Shares, sh)
	}
	if err := closeRows(rows); err != nil {
		return persistence.State{}, err
	}

	return state, nil
}

func (s *Store) saveLocked(ctx context.Context, state persistence.State) error {
	state.Normalize()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitestore: begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"users", "calendars", "events", "posts", "comments", "friends", "calendar_shares"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("sqlitestore: clear %s: %w", table, err)
		}
	}

	for _, u := range state.Users {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, email, password, username, phone) VALUES (?, ?, ?, ?, ?)`,
			u.ID, u.Email, u.Password, u.Username, u.Phone,
		); err != nil {
			return fmt.Errorf("sqlitestore: insert user: %w", err)
		}
	}
	for _, c := range state.Calendars {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO calendars (calendar_id, calendar_name, calendar_purpose, calendar_color, user_num) VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Purpose, c.Color, c.UserNum,
		); err != nil {
			return fmt.Errorf("sqlitestore: insert calendar: %w", err)
		}
	}
	for _, e := range state.Events {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO events (event_id, title, content, start_date, end_date, start_time, end_time, color, calendar_id, user_num)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Title, e.Content, e.StartDate, e.EndDate, e.StartTime, e.EndTime, e.Color, e.CalendarID, e.UserNum,
		); err != nil {
			return fmt.Errorf("sqlitestore: insert event: %w", err)
		}
	}
	for _, p := range state.Posts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO posts (post_num, user_id, calendar_num, post_title, post_content, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.UserID, p.CalendarNum, p.Title, p.Content, p.CreatedAt,
		); err != nil {
			return fmt.Errorf("sqlitestore: insert post: %w", err)
		}
	}
	for _, c := range state.Comments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO comments (comment_num, user_id, post_num, comment_content, created_at) VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.UserID, c.PostNum, c.Content, c.CreatedAt,
		); err != nil {
			return fmt.Errorf("sqlitestore: insert comment: %w", err)
		}
	}
	for _, f := range state.Friends {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO friends (id, user_id, friend_id, status) VALUES (?, ?, ?, ?)`,
			f.ID, f.UserID, f.FriendID, f.Status,
		); err != nil {
			return fmt.Errorf("sqlitestore: insert friend: %w", err)
		}
	}
	for _, sh := range state.Shares {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO calendar_shares (share_id, calendar_id, inviter_id, invitee_id, role, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sh.ID, sh.CalendarID, sh.InviterID, sh.InviteeID, sh.Role, sh.Status, sh.CreatedAt,
		); err != nil {
			return fmt.Errorf("sqlitestore: insert calendar share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlitestore: commit: %w", err)
	}
	return nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("sqlitestore: iterate rows: %w", err)
	}
	return rows.Close()
}
