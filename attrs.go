package zarr

// GetAttrs reads the ".zattrs" document at path, returning an empty object
// if absent.
func GetAttrs(store Store, path Path) (Attributes, error) {
	data, err := store.Get(path.Key(string(ZattrsKey)))
	if err == ErrKeyNotFound {
		return Attributes{}, nil
	}
	if err != nil {
		return nil, wrapStoreError(err, "reading %s", path.Key(string(ZattrsKey)))
	}
	return UnmarshalAttributes(data)
}

// SetAttrs replaces the ".zattrs" document at path. Updates are last-
// writer-wins; the core does not merge with any existing document.
func SetAttrs(store Store, path Path, attrs Attributes) error {
	doc, err := MarshalAttributes(attrs)
	if err != nil {
		return err
	}
	if err := store.Set(path.Key(string(ZattrsKey)), doc); err != nil {
		return wrapStoreError(err, "writing %s", path.Key(string(ZattrsKey)))
	}
	return nil
}
