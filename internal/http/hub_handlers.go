package http

import (
	"net/http"

	"rentbook/internal/core"
)

func (s *Server) handleHubTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.hub.Tasks())
	case http.MethodPost:
		var t core.SharedTask
		if !decodeBody(w, r, &t) {
			return
		}
		writeJSON(w, http.StatusCreated, s.hub.AddTask(r.Context(), t))
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleHubTaskByID(w http.ResponseWriter, r *http.Request) {
	parts := pathTail(r.URL.Path, "/api/hub/tasks")
	switch {
	case len(parts) == 1 && r.Method == http.MethodPut:
		var in core.SharedTask
		if !decodeBody(w, r, &in) {
			return
		}
		err := s.hub.UpdateTask(r.Context(), parts[0], func(cur core.SharedTask) core.SharedTask {
			in.ID = cur.ID
			in.CreatedAt = cur.CreatedAt
			in.CreatedBy = cur.CreatedBy
			return in
		})
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.hub.Tasks())
	case len(parts) == 1 && r.Method == http.MethodDelete:
		s.hub.DeleteTask(r.Context(), parts[0])
		w.WriteHeader(http.StatusNoContent)
	case len(parts) == 2 && parts[1] == "complete" && r.Method == http.MethodPost:
		s.hub.CompleteTask(r.Context(), parts[0])
		writeJSON(w, http.StatusOK, s.hub.Tasks())
	case len(parts) == 2 && parts[1] == "highlight" && r.Method == http.MethodPost:
		s.hub.HighlightTask(r.Context(), parts[0])
		writeJSON(w, http.StatusOK, s.hub.Tasks())
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleHubLists(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.hub.Lists())
	case http.MethodPost:
		var l core.SharedList
		if !decodeBody(w, r, &l) {
			return
		}
		writeJSON(w, http.StatusCreated, s.hub.AddList(r.Context(), l))
	default:
		methodNotAllowed(w)
	}
}

// handleHubListSubtree routes list updates and the item sub-resource:
// /api/hub/lists/{id}, /api/hub/lists/{id}/highlight,
// /api/hub/lists/{id}/items and /api/hub/lists/{id}/items/{itemID}.
func (s *Server) handleHubListSubtree(w http.ResponseWriter, r *http.Request) {
	parts := pathTail(r.URL.Path, "/api/hub/lists")
	switch {
	case len(parts) == 1 && r.Method == http.MethodPut:
		var in core.SharedList
		if !decodeBody(w, r, &in) {
			return
		}
		err := s.hub.UpdateList(r.Context(), parts[0], func(cur core.SharedList) core.SharedList {
			in.ID = cur.ID
			in.CreatedAt = cur.CreatedAt
			in.CreatedBy = cur.CreatedBy
			return in
		})
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.hub.Lists())
	case len(parts) == 1 && r.Method == http.MethodDelete:
		s.hub.DeleteList(r.Context(), parts[0])
		w.WriteHeader(http.StatusNoContent)
	case len(parts) == 2 && parts[1] == "highlight" && r.Method == http.MethodPost:
		s.hub.HighlightList(r.Context(), parts[0])
		writeJSON(w, http.StatusOK, s.hub.Lists())
	case len(parts) == 2 && parts[1] == "items" && r.Method == http.MethodPost:
		var item core.ListItem
		if !decodeBody(w, r, &item) {
			return
		}
		if err := s.hub.AddListItem(r.Context(), parts[0], item); err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.hub.Lists())
	case len(parts) == 3 && parts[1] == "items" && r.Method == http.MethodPost:
		if err := s.hub.ToggleListItem(r.Context(), parts[0], parts[2]); err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.hub.Lists())
	case len(parts) == 3 && parts[1] == "items" && r.Method == http.MethodDelete:
		if err := s.hub.DeleteListItem(r.Context(), parts[0], parts[2]); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleHubIdeas(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.hub.Ideas())
	case http.MethodPost:
		var i core.SharedIdea
		if !decodeBody(w, r, &i) {
			return
		}
		writeJSON(w, http.StatusCreated, s.hub.AddIdea(r.Context(), i))
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleHubIdeaByID(w http.ResponseWriter, r *http.Request) {
	parts := pathTail(r.URL.Path, "/api/hub/ideas")
	switch {
	case len(parts) == 1 && r.Method == http.MethodPut:
		var in core.SharedIdea
		if !decodeBody(w, r, &in) {
			return
		}
		err := s.hub.UpdateIdea(r.Context(), parts[0], func(cur core.SharedIdea) core.SharedIdea {
			in.ID = cur.ID
			in.CreatedAt = cur.CreatedAt
			in.CreatedBy = cur.CreatedBy
			return in
		})
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.hub.Ideas())
	case len(parts) == 1 && r.Method == http.MethodDelete:
		s.hub.DeleteIdea(r.Context(), parts[0])
		w.WriteHeader(http.StatusNoContent)
	case len(parts) == 2 && parts[1] == "highlight" && r.Method == http.MethodPost:
		s.hub.HighlightIdea(r.Context(), parts[0])
		writeJSON(w, http.StatusOK, s.hub.Ideas())
	default:
		http.NotFound(w, r)
	}
}
