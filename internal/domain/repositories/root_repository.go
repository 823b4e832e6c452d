package repositories

// RootRepository locates the version-control root enclosing a directory.
type RootRepository interface {
	// RepositoryRoot returns the work tree root enclosing dir, or an error outside a repository.
	RepositoryRoot(dir string) (string, error)
}
