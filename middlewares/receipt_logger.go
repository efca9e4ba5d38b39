package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/bar-pos/utils"
)

// ReceiptLoggerMiddleware records who printed which receipt.
func ReceiptLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		fields := logrus.Fields{
			"transaction_id": c.Param("transaction_id"),
			"status":         c.Writer.Status(),
		}
		if id, ok := EmployeeID(c); ok {
			fields["employee_id"] = id
		}

		if c.Writer.Status() == 200 {
			utils.InfoLogger.WithFields(fields).Info("receipt issued")
		} else {
			utils.ErrorLogger.WithFields(fields).Warn("receipt request failed")
		}
	}
}
