//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"pairchat/domain"
	"pairchat/errors"
)

type IUserRepository interface {
	CreateUser(fullName, email, hashedPassword string) (domain.User, error)
	GetUserByEmail(email string) (domain.User, error)
	GetUserByID(id domain.Identity) (domain.User, error)
	ListContacts(exclude domain.Identity) ([]domain.User, error)
	UpdateProfilePic(id domain.Identity, ref string) (domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// storedUser is the on-disk representation. The domain type hides the
// password hash from API marshalling, so the repository keeps its own
// codec that persists the full record.
type storedUser struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	ProfilePic   string `json:"profilePic"`
	CreatedAt    int64  `json:"createdAt"`
}

// CreateUser persists a new account under "user:{email}" plus an
// id-to-email index under "useridx:{id}" for lookups by identity.
// The email key doubles as the uniqueness guard.
func (u *UserRepository) CreateUser(fullName, email, hashedPassword string) (domain.User, error) {
	user := domain.User{
		ID:           domain.Identity(uuid.NewString()),
		FullName:     fullName,
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(fromDomain(user))
	if err != nil {
		return domain.User{}, err
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		key := []byte("user:" + email)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set([]byte("useridx:"+string(user.ID)), []byte(email))
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (u *UserRepository) GetUserByEmail(email string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		found, err := readUser(txn, email)
		if err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (u *UserRepository) GetUserByID(id domain.Identity) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		email, err := readUserEmail(txn, id)
		if err != nil {
			return err
		}
		found, err := readUser(txn, email)
		if err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// ListContacts returns every account except the excluded one. This feeds
// the contact sidebar, so the whole directory is the expected size.
func (u *UserRepository) ListContacts(exclude domain.Identity) ([]domain.User, error) {
	var contacts []domain.User
	prefix := []byte("user:")

	err := u.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var stored storedUser
				if err := json.Unmarshal(value, &stored); err != nil {
					return err
				}
				if user := stored.toDomain(); user.ID != exclude {
					contacts = append(contacts, user)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// UpdateProfilePic swaps the avatar reference in a single transaction and
// returns the updated account.
func (u *UserRepository) UpdateProfilePic(id domain.Identity, ref string) (domain.User, error) {
	var user domain.User
	err := u.db.Update(func(txn *badger.Txn) error {
		email, err := readUserEmail(txn, id)
		if err != nil {
			return err
		}
		found, err := readUser(txn, email)
		if err != nil {
			return err
		}
		found.ProfilePic = ref
		data, err := json.Marshal(fromDomain(found))
		if err != nil {
			return err
		}
		if err := txn.Set([]byte("user:"+email), data); err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func readUserEmail(txn *badger.Txn, id domain.Identity) (string, error) {
	item, err := txn.Get([]byte("useridx:" + string(id)))
	if err != nil {
		return "", errors.ErrUserNotFound
	}
	var email string
	err = item.Value(func(val []byte) error {
		email = string(val)
		return nil
	})
	return email, err
}

func readUser(txn *badger.Txn, email string) (domain.User, error) {
	item, err := txn.Get([]byte("user:" + email))
	if err != nil {
		return domain.User{}, errors.ErrUserNotFound
	}
	var stored storedUser
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &stored)
	})
	if err != nil {
		return domain.User{}, err
	}
	return stored.toDomain(), nil
}

func fromDomain(user domain.User) storedUser {
	return storedUser{
		ID:           string(user.ID),
		FullName:     user.FullName,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		ProfilePic:   user.ProfilePic,
		CreatedAt:    user.CreatedAt.UnixNano(),
	}
}

func (s storedUser) toDomain() domain.User {
	return domain.User{
		ID:           domain.Identity(s.ID),
		FullName:     s.FullName,
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
		ProfilePic:   s.ProfilePic,
		CreatedAt:    time.Unix(0, s.CreatedAt).UTC(),
	}
}
