package tui

import (
	"fmt"
	"strings"

	"github.com/svera/snapgram/internal/api"
	"github.com/svera/snapgram/internal/feed"
)

const (
	endOfPosts = "End of posts"
	noResults  = "No results found"
)

func (m Model) headerHeight() int {
	if m.screen == Explore {
		return 4
	}
	return 2
}

func (m Model) View() string {
	var sb strings.Builder

	switch m.screen {
	case Explore:
		sb.WriteString(m.styles.Title.Render("Search Posts"))
		sb.WriteString("\n")
		sb.WriteString(m.input.View())
		sb.WriteString("\n\n")
	default:
		sb.WriteString(m.styles.Title.Render("Home Feed"))
		sb.WriteString("\n")
	}

	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(m.footer())
	return sb.String()
}

func (m Model) footer() string {
	var status string
	switch {
	case m.status != "":
		status = m.styles.Error.Render(m.status)
	default:
		if err := m.coordinator.View().Err; err != nil {
			status = m.styles.Error.Render(fmt.Sprintf("Something went wrong: %v", err))
		}
	}

	help := "↑/↓ select • l like • s save • r reload • q quit"
	if m.screen == Explore {
		help = "tab switch focus • " + help
		if m.typing {
			help = "tab browse posts • ctrl+c quit"
		}
	}
	return status + "\n" + m.styles.Help.Render(help)
}

// renderBody renders the posts and markers of v, recording where every post starts
func (m *Model) renderBody(v feed.View[api.Post]) string {
	var sb strings.Builder
	m.offsets = m.offsets[:0]

	if m.screen == Explore && v.Query == "" && v.State != feed.StateLoading {
		sb.WriteString(m.styles.Creator.Render("Popular Today"))
		sb.WriteString("\n\n")
	}

	switch v.State {
	case feed.StateLoading, feed.StateSearching:
		sb.WriteString(m.loader())
		return sb.String()
	case feed.StateNoResults:
		sb.WriteString(m.styles.Status.Render(noResults))
		return sb.String()
	case feed.StateEmpty:
		sb.WriteString(m.styles.Status.Render(endOfPosts))
		return sb.String()
	}

	for i, post := range m.posts {
		m.offsets = append(m.offsets, strings.Count(sb.String(), "\n"))
		sb.WriteString(m.renderPost(post, i == m.selected))
		sb.WriteString(strings.Repeat("\n", cardSpacing+1))
	}

	switch {
	case v.Sentinel:
		sb.WriteString(m.loader())
	case v.EndOfFeed:
		sb.WriteString(m.styles.Status.Render(endOfPosts))
	}
	return sb.String()
}

func (m Model) loader() string {
	return m.spinner.View() + " " + m.styles.Status.Render("Loading...")
}

func (m Model) renderPost(post api.Post, selected bool) string {
	var sb strings.Builder

	if post.Creator != nil {
		sb.WriteString(m.styles.Creator.Render(post.Creator.Name))
		sb.WriteString(" ")
		sb.WriteString(m.styles.Muted.Render("@" + post.Creator.Username))
	} else {
		sb.WriteString(m.styles.Muted.Render("unknown creator"))
	}
	sb.WriteString("\n")

	meta := post.CreatedAt.Format("2 Jan 2006")
	if post.Location != "" {
		meta += " • " + post.Location
	}
	sb.WriteString(m.styles.Muted.Render(meta))
	sb.WriteString("\n\n")
	sb.WriteString(post.Caption)

	if len(post.Tags) > 0 {
		tags := make([]string, len(post.Tags))
		for i, tag := range post.Tags {
			tags[i] = "#" + tag
		}
		sb.WriteString("\n")
		sb.WriteString(m.styles.Tag.Render(strings.Join(tags, " ")))
	}

	sb.WriteString("\n\n")
	likes := fmt.Sprintf("♡ %d", len(post.Likes))
	if post.LikedBy(m.user.ID) {
		likes = m.styles.Liked.Render(fmt.Sprintf("♥ %d", len(post.Likes)))
	}
	sb.WriteString(likes)
	if m.saved[post.ID] {
		sb.WriteString("   ")
		sb.WriteString(m.styles.Tag.Render("saved"))
	}

	style := m.styles.Card
	if selected {
		style = m.styles.Selected
	}
	return style.Width(max(m.viewport.Width-2, 20)).Render(sb.String())
}
