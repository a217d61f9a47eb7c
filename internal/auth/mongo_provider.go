package auth

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/ranihwanifactory/2026newyear/internal/faults"
	"github.com/ranihwanifactory/2026newyear/internal/models"
	jwtutil "github.com/ranihwanifactory/2026newyear/pkg/jwt"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const sessionTTL = 72 * time.Hour

// User is an account record in the users collection.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Email          string             `bson:"email"`
	DisplayName    string             `bson:"display_name"`
	PhotoURL       string             `bson:"photo_url,omitempty"`
	HashedPassword string             `bson:"hashed_password"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (u *User) identity() *models.Identity {
	return &models.Identity{
		UID:         u.ID.Hex(),
		DisplayName: u.DisplayName,
		Email:       u.Email,
		PhotoURL:    u.PhotoURL,
	}
}

// MongoProvider is a credential-based auth provider backed by a users
// collection, issuing JWT session tokens so a signed-in session can be
// resumed across restarts.
type MongoProvider struct {
	users     *mongo.Collection
	jwtSecret string
	state     *broadcaster
}

func NewMongoProvider(db *mongo.Database, jwtSecret string) *MongoProvider {
	return &MongoProvider{
		users:     db.Collection("users"),
		jwtSecret: jwtSecret,
		state:     newBroadcaster(),
	}
}

func (p *MongoProvider) Subscribe() (<-chan *models.Identity, Unsubscribe) {
	return p.state.subscribe()
}

func (p *MongoProvider) SignUp(ctx context.Context, email, password, displayName string) (*models.Identity, error) {
	if email == "" || password == "" {
		return nil, faults.New(faults.Validation, "email and password are required")
	}
	if !emailRegex.MatchString(email) {
		logrus.WithField("email", email).Warn("Invalid email format during sign-up")
		return nil, faults.New(faults.Validation, "invalid email format")
	}

	if err := p.users.FindOne(ctx, bson.M{"email": email}).Err(); err == nil {
		return nil, faults.New(faults.Validation, "email already in use")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	now := time.Now()
	user := &User{
		Email:          email,
		DisplayName:    displayName,
		HashedPassword: string(hashed),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	result, err := p.users.InsertOne(ctx, user)
	if err != nil {
		return nil, faults.Wrap(faults.Unknown, "failed to create account", err)
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	ident := user.identity()
	p.state.set(ident)
	logrus.WithField("userID", ident.UID).Info("User signed up")
	return ident, nil
}

func (p *MongoProvider) SignIn(ctx context.Context, email, password string) (*models.Identity, error) {
	var user User
	if err := p.users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, faults.Wrap(faults.Permission, "unknown email or wrong password", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, faults.Wrap(faults.Permission, "unknown email or wrong password", err)
	}

	ident := user.identity()
	p.state.set(ident)
	logrus.WithField("userID", ident.UID).Info("User signed in")
	return ident, nil
}

func (p *MongoProvider) SignOut(_ context.Context) error {
	p.state.set(nil)
	return nil
}

func (p *MongoProvider) UpdateDisplayName(ctx context.Context, displayName string) error {
	current := p.state.get()
	if current == nil {
		return faults.New(faults.NotAuthenticated, "sign in required")
	}
	oid, err := primitive.ObjectIDFromHex(current.UID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %v", err)
	}

	update := bson.M{"$set": bson.M{"display_name": displayName, "updated_at": time.Now()}}
	if _, err := p.users.UpdateOne(ctx, bson.M{"_id": oid}, update); err != nil {
		return faults.Wrap(faults.Unknown, "failed to update profile", err)
	}

	updated := *current
	updated.DisplayName = displayName
	p.state.set(&updated)
	return nil
}

// SessionToken issues a resumable token for the signed-in identity.
func (p *MongoProvider) SessionToken() (string, error) {
	current := p.state.get()
	if current == nil {
		return "", faults.New(faults.NotAuthenticated, "sign in required")
	}
	return jwtutil.GenerateToken(current.UID, current.Email, p.jwtSecret, sessionTTL)
}

// Resume restores a session from a previously issued token.
func (p *MongoProvider) Resume(ctx context.Context, token string) (*models.Identity, error) {
	claims, err := jwtutil.ValidateToken(token, p.jwtSecret)
	if err != nil {
		return nil, faults.Wrap(faults.Permission, "session expired", err)
	}
	oid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, faults.Wrap(faults.Permission, "session expired", err)
	}

	var user User
	if err := p.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		return nil, faults.Wrap(faults.Permission, "account no longer exists", err)
	}

	ident := user.identity()
	p.state.set(ident)
	return ident, nil
}
