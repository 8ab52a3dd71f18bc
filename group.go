package zarr

import "strings"

// Group is a node in a path-shaped hierarchy carrying only a format
// version marker and attributes. A group exists at path P iff key
// P/.zgroup exists (or at root iff .zgroup exists). Groups have no
// enumeration of members stored; membership is derived by scanning for
// immediate-child ".zgroup"/".zarray" keys.
type Group struct {
	path  Path
	store Store
}

// OpenGroup attaches to an existing group at path, failing with
// ErrNotFound if no .zgroup exists there.
func OpenGroup(store Store, path Path) (*Group, error) {
	ok, err := store.Contains(path.Key(string(ZgroupKey)))
	if err != nil {
		return nil, wrapStoreError(err, "checking %s", path.Key(string(ZgroupKey)))
	}
	if !ok {
		return nil, notFoundf("no group at %q", path)
	}
	return &Group{path: path, store: store}, nil
}

// Path returns the group's canonical path.
func (g *Group) Path() Path { return g.path }

// CreateGroup writes a ".zgroup" document at path, and at every proper
// ancestor up to root that does not already carry one.
// An existing ".zarray" at path or any ancestor is a PATH_CONFLICT, since
// arrays cannot contain other nodes. An existing ".zgroup" at path itself
// is not an error: group creation is idempotent at the leaf.
func CreateGroup(store Store, path Path) (*Group, error) {
	if err := ensureAncestorGroups(store, path); err != nil {
		return nil, err
	}

	if err := failIfArray(store, path); err != nil {
		return nil, err
	}

	if err := writeGroupMeta(store, path); err != nil {
		return nil, err
	}
	return &Group{path: path, store: store}, nil
}

// ensureAncestorGroups writes ".zgroup" at every proper ancestor of path
// that doesn't already have one, failing PATH_CONFLICT if an ancestor
// holds ".zarray" instead.
func ensureAncestorGroups(store Store, path Path) error {
	for _, ancestor := range path.Ancestors() {
		if err := failIfArray(store, ancestor); err != nil {
			return err
		}
		hasGroup, err := store.Contains(ancestor.Key(string(ZgroupKey)))
		if err != nil {
			return wrapStoreError(err, "checking %s", ancestor.Key(string(ZgroupKey)))
		}
		if hasGroup {
			continue
		}
		if err := writeGroupMeta(store, ancestor); err != nil {
			return err
		}
	}
	return nil
}

func failIfArray(store Store, path Path) error {
	hasArray, err := store.Contains(path.Key(string(ZarrayKey)))
	if err != nil {
		return wrapStoreError(err, "checking %s", path.Key(string(ZarrayKey)))
	}
	if hasArray {
		return pathConflictf("%q already holds an array, which cannot contain other nodes", path)
	}
	return nil
}

func writeGroupMeta(store Store, path Path) error {
	doc, err := MarshalGroupMeta()
	if err != nil {
		return err
	}
	if err := store.Set(path.Key(string(ZgroupKey)), doc); err != nil {
		return wrapStoreError(err, "writing %s", path.Key(string(ZgroupKey)))
	}
	return nil
}

// CreateArray writes a ".zarray" and an empty ".zattrs" at path, after
// ensuring every proper ancestor carries a ".zgroup" (the same implicit-
// ancestor logic as CreateGroup). If path already holds
// ".zgroup" or ".zarray", creation fails with PATH_EXISTS unless overwrite
// is set, in which case every key with prefix path+"/" (and path's own
// metadata keys) is deleted first — an O(chunks) non-atomic sweep.
func CreateArray(store Store, path Path, meta ArrayMeta, overwrite bool) (*Array, error) {
	if err := validateArrayMeta(meta); err != nil {
		return nil, err
	}

	existsGroup, err := store.Contains(path.Key(string(ZgroupKey)))
	if err != nil {
		return nil, wrapStoreError(err, "checking %s", path.Key(string(ZgroupKey)))
	}
	existsArray, err := store.Contains(path.Key(string(ZarrayKey)))
	if err != nil {
		return nil, wrapStoreError(err, "checking %s", path.Key(string(ZarrayKey)))
	}

	if existsGroup || existsArray {
		if !overwrite {
			return nil, pathExistsf("%q already exists", path)
		}
		if err := deletePrefix(store, path); err != nil {
			return nil, err
		}
	}

	if err := ensureAncestorGroups(store, path); err != nil {
		return nil, err
	}

	doc, err := MarshalArrayMeta(meta)
	if err != nil {
		return nil, err
	}
	if err := store.Set(path.Key(string(ZarrayKey)), doc); err != nil {
		return nil, wrapStoreError(err, "writing %s", path.Key(string(ZarrayKey)))
	}

	attrsDoc, err := MarshalAttributes(Attributes{})
	if err != nil {
		return nil, err
	}
	if err := store.Set(path.Key(string(ZattrsKey)), attrsDoc); err != nil {
		return nil, wrapStoreError(err, "writing %s", path.Key(string(ZattrsKey)))
	}

	return &Array{path: path, store: store, meta: meta}, nil
}

// deletePrefix enumerates and deletes every key under path (its own
// metadata keys plus everything below path+"/"). Not atomic.
func deletePrefix(store Store, path Path) error {
	for _, suffix := range []MetaKey{ZarrayKey, ZgroupKey, ZattrsKey} {
		if _, err := store.Delete(path.Key(string(suffix))); err != nil {
			return wrapStoreError(err, "deleting %s", path.Key(string(suffix)))
		}
	}
	keys, err := store.ListPrefix(path.Prefix())
	if err != nil {
		return wrapStoreError(err, "listing %s", path.Prefix())
	}
	for _, k := range keys {
		if _, err := store.Delete(k); err != nil {
			return wrapStoreError(err, "deleting %s", k)
		}
	}
	return nil
}

// Member describes one immediate child of a group.
type Member struct {
	Name    string
	IsGroup bool
	IsArray bool
}

// ListMembers scans the store for immediate children of the group at
// path: keys of the form "path/Q/.zgroup" or "path/Q/.zarray" where Q
// contains no further "/".
func ListMembers(store Store, path Path) ([]Member, error) {
	keys, err := store.ListPrefix(path.Prefix())
	if err != nil {
		return nil, wrapStoreError(err, "listing %s", path.Prefix())
	}

	seen := make(map[string]*Member)
	var order []string

	for _, k := range keys {
		rel := strings.TrimPrefix(k, path.Prefix())
		var name, kind string
		switch {
		case strings.HasSuffix(rel, "/"+string(ZgroupKey)):
			name = strings.TrimSuffix(rel, "/"+string(ZgroupKey))
			kind = "group"
		case strings.HasSuffix(rel, "/"+string(ZarrayKey)):
			name = strings.TrimSuffix(rel, "/"+string(ZarrayKey))
			kind = "array"
		default:
			continue
		}
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		m, ok := seen[name]
		if !ok {
			m = &Member{Name: name}
			seen[name] = m
			order = append(order, name)
		}
		if kind == "group" {
			m.IsGroup = true
		} else {
			m.IsArray = true
		}
	}

	out := make([]Member, 0, len(order))
	for _, name := range order {
		out = append(out, *seen[name])
	}
	return out, nil
}
