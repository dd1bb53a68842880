// Package tui renders the home feed and the explore screen in the terminal.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/svera/snapgram/internal/api"
	"github.com/svera/snapgram/internal/feed"
	"github.com/svera/snapgram/internal/result"
)

type Screen int

const (
	Home Screen = iota
	Explore
)

const (
	footerHeight = 2
	cardSpacing  = 1
)

// Service holds the operations the screens need
type Service interface {
	GetRecentPosts(ctx context.Context, cursor string) (result.Page[api.Post], error)
	GetInfinitePosts(ctx context.Context, cursor string) (result.Page[api.Post], error)
	SearchPosts(ctx context.Context, term string) ([]api.Post, error)
	LikePost(ctx context.Context, postID string, likes []string) (api.Post, error)
	SavePost(ctx context.Context, postID, userID string) (api.Save, error)
	DeleteSavedPost(ctx context.Context, savedRecordID string) error
	GetSavedRecord(ctx context.Context, userID, postID string) (api.Save, error)
}

// changedMsg is sent every time the coordinator notifies a change
type changedMsg struct{}

type likedMsg struct {
	postID string
	likes  []string
	err    error
}

type savedMsg struct {
	postID string
	saved  bool
	err    error
}

// Model is the bubbletea model of both screens. Close must be called once
// the program exits.
type Model struct {
	ctx         context.Context
	screen      Screen
	service     Service
	user        api.User
	coordinator *feed.Coordinator[api.Post]
	changes     chan struct{}

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	styles   Styles
	width    int
	height   int

	// typing is true while the search input has the focus
	typing bool
	// selected indexes the posts currently rendered
	selected int
	// offsets holds the first line of every rendered post
	offsets []int
	posts   []api.Post

	sentinelVisible bool
	pagesSeen       int

	likes  map[string][]string
	saved  map[string]bool
	status string
}

// New builds the model of screen for user. opts.OnChange is replaced, as
// change notifications are delivered to the program as messages.
func New(ctx context.Context, screen Screen, service Service, user api.User, opts feed.Options) Model {
	changes := make(chan struct{}, 1)
	opts.OnChange = func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}

	fetch := service.GetRecentPosts
	if screen == Explore {
		fetch = service.GetInfinitePosts
	}

	styles := DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Search"
	ti.Prompt = "🔍 "
	ti.CharLimit = 256
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	m := Model{
		ctx:         ctx,
		screen:      screen,
		service:     service,
		user:        user,
		coordinator: feed.New(fetch, service.SearchPosts, opts),
		changes:     changes,
		viewport:    viewport.New(80, 20),
		input:       ti,
		spinner:     sp,
		styles:      styles,
		likes:       map[string][]string{},
		saved:       map[string]bool{},
	}
	if screen == Explore {
		m.typing = true
		m.input.Focus()
	}
	m.SetSize(80, 20+m.headerHeight()+footerHeight)
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.start(), m.waitForChange()}
	if m.screen == Explore {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

// Close cancels pending requests and stops waiting for changes
func (m Model) Close() {
	m.coordinator.Close()
	close(m.changes)
}

// SetSize fits the screen in a terminal of the given size
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = max(h-m.headerHeight()-footerHeight, 1)
	m.input.Width = max(w-4, 10)
	m.refresh()
}

func (m Model) start() tea.Cmd {
	return func() tea.Msg {
		m.coordinator.Start()
		return nil
	}
}

func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case _, ok := <-m.changes:
			if !ok {
				return nil
			}
			return changedMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case changedMsg:
		m.refresh()
		cmds = append(cmds, m.waitForChange())

	case likedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Could not like the post: %v", msg.err)
		} else {
			m.likes[msg.postID] = msg.likes
			m.status = ""
		}
		m.refresh()

	case savedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Could not save the post: %v", msg.err)
		} else {
			m.saved[msg.postID] = msg.saved
			m.status = ""
		}
		m.refresh()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if m.loading() {
			m.refresh()
		}

	case tea.KeyMsg:
		cmd, quit := m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
		m.reportSentinel()
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return nil, true
	case "tab", "esc":
		if m.screen == Explore {
			m.typing = !m.typing
			if m.typing {
				return m.input.Focus(), false
			}
			m.input.Blur()
		}
		return nil, false
	}

	if m.typing {
		var cmd tea.Cmd
		previous := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if query := m.input.Value(); query != previous {
			m.coordinator.SetQuery(query)
			m.selected = 0
			m.viewport.GotoTop()
		}
		return cmd, false
	}

	switch msg.String() {
	case "q":
		return nil, true
	case "up", "k":
		m.selectPost(m.selected - 1)
	case "down", "j":
		m.selectPost(m.selected + 1)
	case "l":
		if post, ok := m.current(); ok {
			return m.toggleLike(post), false
		}
	case "s":
		if post, ok := m.current(); ok {
			return m.toggleSave(post), false
		}
	case "r":
		m.selected = 0
		m.viewport.GotoTop()
		m.coordinator.Reload()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.reportSentinel()
		return cmd, false
	}
	return nil, false
}

func (m *Model) selectPost(i int) {
	if len(m.posts) == 0 {
		return
	}
	m.selected = min(max(i, 0), len(m.posts)-1)
	m.refresh()

	start := m.offsets[m.selected]
	end := start + lipgloss.Height(m.renderPost(m.posts[m.selected], true))
	if m.selected == len(m.posts)-1 {
		// the trailing marker belongs with the last post
		end = m.viewport.TotalLineCount()
	}
	switch {
	case start < m.viewport.YOffset:
		m.viewport.SetYOffset(start)
	case end > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(end - m.viewport.Height)
	}
	m.reportSentinel()
}

func (m Model) current() (api.Post, bool) {
	if m.selected >= len(m.posts) {
		return api.Post{}, false
	}
	return m.posts[m.selected], true
}

func (m Model) toggleLike(post api.Post) tea.Cmd {
	likes := api.ToggleLike(post.Likes, m.user.ID)
	return func() tea.Msg {
		updated, err := m.service.LikePost(m.ctx, post.ID, likes)
		return likedMsg{postID: post.ID, likes: updated.Likes, err: err}
	}
}

func (m Model) toggleSave(post api.Post) tea.Cmd {
	return func() tea.Msg {
		record, err := m.service.GetSavedRecord(m.ctx, m.user.ID, post.ID)
		if err == nil {
			if err := m.service.DeleteSavedPost(m.ctx, record.ID); err != nil {
				return savedMsg{postID: post.ID, saved: true, err: err}
			}
			return savedMsg{postID: post.ID, saved: false}
		}
		if api.ReasonOf(err) != api.ReasonNotFound {
			return savedMsg{postID: post.ID, err: err}
		}
		if _, err := m.service.SavePost(m.ctx, post.ID, m.user.ID); err != nil {
			return savedMsg{postID: post.ID, err: err}
		}
		return savedMsg{postID: post.ID, saved: true}
	}
}

// refresh renders the coordinator's view into the viewport
func (m *Model) refresh() {
	v := m.coordinator.View()
	m.posts = m.visiblePosts(v)
	if m.selected >= len(m.posts) {
		m.selected = max(len(m.posts)-1, 0)
	}
	m.viewport.SetContent(m.renderBody(v))
	m.pagesSeenChanged(len(v.Pages))
	m.reportSentinel()
}

// pagesSeenChanged forgets the reported sentinel visibility when a page
// arrives, so a sentinel still in view asks for the next one
func (m *Model) pagesSeenChanged(pages int) {
	if pages != m.pagesSeen {
		m.pagesSeen = pages
		m.sentinelVisible = false
	}
}

// reportSentinel tells the coordinator whether the bottom of the list is in view
func (m *Model) reportSentinel() {
	v := m.coordinator.View()
	visible := v.Sentinel && m.viewport.AtBottom()
	if visible == m.sentinelVisible {
		return
	}
	m.sentinelVisible = visible
	m.coordinator.SetSentinelVisible(visible)
}

func (m Model) loading() bool {
	switch m.coordinator.View().State {
	case feed.StateLoading, feed.StateSearching:
		return true
	}
	return m.sentinelVisible
}

func (m Model) visiblePosts(v feed.View[api.Post]) []api.Post {
	var posts []api.Post
	switch v.State {
	case feed.StateFeed:
		for _, page := range v.Pages {
			posts = append(posts, page...)
		}
	case feed.StateResults:
		posts = append(posts, v.Results...)
	}
	for i, post := range posts {
		if likes, ok := m.likes[post.ID]; ok {
			posts[i].Likes = likes
		}
	}
	return posts
}
