package storage

import (
	"context"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ErrNotFound é o erro distinto para chaves inexistentes; a agregação de
// tenant o traduz em "not_refreshed" no manifesto de falhas
var ErrNotFound = errors.New("objeto não encontrado")

// ObjectStore é a interface chave/valor onde os arquivos de bundle são
// persistidos
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Exists(ctx context.Context, key string) (bool, error)
}

// FileStore implementa ObjectStore sobre um afero.Fs, o que permite rodar os
// testes em memória e a produção no disco local ou em montagem de rede
type FileStore struct {
	fs   afero.Fs
	root string
}

func NewFileStore(fs afero.Fs, root string) *FileStore {
	return &FileStore{fs: fs, root: root}
}

func (s *FileStore) path(key string) string {
	return path.Join(s.root, key)
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrNotFound, key)
		}
		return nil, errors.Wrapf(err, "erro ao ler objeto %s", key)
	}
	return data, nil
}

func (s *FileStore) Put(_ context.Context, key string, data []byte) error {
	fullPath := s.path(key)

	if err := s.fs.MkdirAll(path.Dir(fullPath), 0o755); err != nil {
		return errors.Wrapf(err, "erro ao criar diretório para %s", key)
	}

	if err := afero.WriteFile(s.fs, fullPath, data, 0o644); err != nil {
		return errors.Wrapf(err, "erro ao gravar objeto %s", key)
	}

	return nil
}

func (s *FileStore) Exists(_ context.Context, key string) (bool, error) {
	exists, err := afero.Exists(s.fs, s.path(key))
	if err != nil {
		return false, errors.Wrapf(err, "erro ao verificar objeto %s", key)
	}
	return exists, nil
}
