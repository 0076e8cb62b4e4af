package demo

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"

	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
	"github.com/Motmedel/results_go/pkg/http/problem_detail/problem_detail_config"
	"github.com/Motmedel/results_go/pkg/http/result"
	"github.com/gorilla/mux"
)

const maxItemBodySize = 1 << 16

type Item struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
	Note string `json:"note,omitempty"`
}

type itemStore struct {
	mu     sync.RWMutex
	nextId int
	items  map[int]*Item
}

func newItemStore() *itemStore {
	return &itemStore{nextId: 1, items: make(map[int]*Item)}
}

func (store *itemStore) add(name string, note string) Item {
	store.mu.Lock()
	defer store.mu.Unlock()

	item := &Item{Id: store.nextId, Name: name, Note: note}
	store.items[item.Id] = item
	store.nextId++

	return *item
}

func (store *itemStore) get(id int) (Item, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	item, ok := store.items[id]
	if !ok {
		return Item{}, false
	}
	return *item, true
}

func (store *itemStore) list() []Item {
	store.mu.RLock()
	defer store.mu.RUnlock()

	items := make([]Item, 0, len(store.items))
	for _, id := range slices.Sorted(maps.Keys(store.items)) {
		items = append(items, *store.items[id])
	}
	return items
}

func (store *itemStore) remove(id int) bool {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.items[id]; !ok {
		return false
	}
	delete(store.items, id)
	return true
}

func itemId(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	return id, err == nil && id > 0
}

func (server *Server) listItems(*http.Request) (result.Result, error) {
	return result.OkValue(server.items.list()), nil
}

func (server *Server) getItem(r *http.Request) (result.Result, error) {
	id, ok := itemId(r)
	if !ok {
		return result.Problem(
			problem_detail_config.WithStatus(http.StatusBadRequest),
			problem_detail_config.WithDetail("The item id must be a positive integer."),
		), nil
	}

	item, ok := server.items.get(id)
	if !ok {
		return result.NotFound(), nil
	}

	return result.OkValue(item), nil
}

type createItemInput struct {
	Name string `json:"name"`
	Note string `json:"note"`
}

func (server *Server) createItem(r *http.Request) (result.Result, error) {
	var input createItemInput

	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxItemBodySize))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&input); err != nil {
		return result.Problem(
			problem_detail_config.WithStatus(http.StatusBadRequest),
			problem_detail_config.WithDetail("The body must be a JSON item."),
		), nil
	}

	errs := make(map[string][]string)
	name := strings.TrimSpace(input.Name)
	if name == "" {
		errs["name"] = append(errs["name"], "The name is required.")
	}
	if len(name) > 100 {
		errs["name"] = append(errs["name"], "The name must be at most 100 characters.")
	}
	if len(errs) != 0 {
		res, err := result.ValidationProblem(errs)
		if err != nil {
			return nil, motmedelErrors.New(fmt.Errorf("validation problem: %w", err), errs)
		}
		return res, nil
	}

	item := server.items.add(name, input.Note)

	return result.CreatedAtRoute(RouteItem, map[string]string{"id": strconv.Itoa(item.Id)}, item), nil
}

func (server *Server) deleteItem(r *http.Request) (result.Result, error) {
	id, ok := itemId(r)
	if !ok || !server.items.remove(id) {
		return result.NotFound(), nil
	}
	return result.NoContent(), nil
}
