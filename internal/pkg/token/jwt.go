package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer identifica tokens emitidos pelo próprio console (txctl e testes).
const Issuer = "posconsole"

// leeway tolera pequenas diferenças de relógio com o serviço de autenticação.
const leeway = 30 * time.Second

// ErrNoSubject indica um token válido que não identifica o operador.
var ErrNoSubject = errors.New("token sem identificação do usuário")

// TokenService define o contrato para manipulação de JWTs.
// Os tokens são emitidos pelo serviço de autenticação do backend com o mesmo segredo;
// o console os valida e repassa ao backend.
type TokenService interface {
	GenerateToken(userID int64, userRole string) (string, error)
	ValidateToken(tokenString string) (*CustomClaims, error)
}

// CustomClaims são as informações do operador carregadas no JWT.
type CustomClaims struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service implementa a interface TokenService.
type Service struct {
	secretKey []byte
	expiry    time.Duration
	parser    *jwt.Parser
}

// NewService cria o serviço. expiry só afeta tokens emitidos por GenerateToken.
func NewService(secretKey string, expiry time.Duration) *Service {
	if expiry == 0 {
		expiry = time.Hour
	}
	return &Service{
		secretKey: []byte(secretKey),
		expiry:    expiry,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
			jwt.WithLeeway(leeway),
			jwt.WithExpirationRequired(),
		),
	}
}

// GenerateToken cria um JWT assinado. Usado pelo txctl e pelos testes.
func (s *Service) GenerateToken(userID int64, userRole string) (string, error) {
	now := time.Now()
	claims := CustomClaims{
		UserID: userID,
		Role:   userRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    Issuer,
			Subject:   strconv.FormatInt(userID, 10),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("falha ao assinar o token: %w", err)
	}
	return signed, nil
}

// ValidateToken valida assinatura e validade e devolve as claims. Quando o
// backend não preenche userId, o operador é lido do sub.
func (s *Service) ValidateToken(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	if _, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	}); err != nil {
		return nil, fmt.Errorf("token inválido: %w", err)
	}

	if claims.UserID == 0 && claims.Subject != "" {
		id, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("sub inválido %q: %w", claims.Subject, err)
		}
		claims.UserID = id
	}
	if claims.UserID == 0 {
		return nil, ErrNoSubject
	}
	return claims, nil
}
