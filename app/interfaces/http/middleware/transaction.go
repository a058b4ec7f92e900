package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"leadgen.ai/leadgen-api/app/infrastructure/database"
	"leadgen.ai/leadgen-api/app/infrastructure/database/repository/transaction"
	"leadgen.ai/leadgen-api/app/interfaces/http/responses"
)

// TransactionMiddleware runs the handler inside one database transaction.
// Aborted requests and error statuses roll back.
func TransactionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tx := database.DB.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
				panic(r)
			}
		}()
		ctxWithTx := transaction.WithTx(c.Request.Context(), tx)
		c.Request = c.Request.WithContext(ctxWithTx)
		c.Next()

		if c.IsAborted() || c.Writer.Status() >= http.StatusBadRequest {
			tx.Rollback()
			return
		}

		if err := tx.Commit().Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
				Code:  "a5a38af2-1605-4f58-a89c-fa3ff390d4db",
				Error: "failed to commit transaction",
			})
			return
		}
	}
}
