package dashboard

import (
	"github.com/facturaflow/dashboard/internal/domain/dashboard"
)

// DefaultSidebarBreakpoint is the widest viewport that still uses the overlay
const DefaultSidebarBreakpoint = 768

// Sidebar is the collapsed/overlay state of one page view
type Sidebar struct {
	breakpoint int
	state      dashboard.SidebarState
}

func NewSidebar(breakpoint int) *Sidebar {
	if breakpoint <= 0 {
		breakpoint = DefaultSidebarBreakpoint
	}
	return &Sidebar{breakpoint: breakpoint}
}

// Toggle flips collapsed, and the overlay too on narrow viewports
func (s *Sidebar) Toggle(viewportWidth int) (dashboard.SidebarState, error) {
	if viewportWidth <= 0 {
		return s.state, dashboard.ErrInvalidViewport
	}

	s.state.Collapsed = !s.state.Collapsed
	if viewportWidth <= s.breakpoint {
		s.state.OverlayActive = !s.state.OverlayActive
	}
	return s.state, nil
}

// Close collapses the sidebar and removes the overlay
func (s *Sidebar) Close() dashboard.SidebarState {
	s.state = dashboard.SidebarState{Collapsed: true}
	return s.state
}

func (s *Sidebar) State() dashboard.SidebarState {
	return s.state
}
