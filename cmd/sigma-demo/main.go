// Command sigma-demo walks the whole protocol once: key generation, credential
// issuance, a challenge session, proof construction and verification, and the
// policy decision — then shows that tampered credentials and replayed sessions
// are refused.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/verifid/sigma"
	"github.com/verifid/sigma/engine"
	"github.com/verifid/sigma/policy"
)

func main() {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)
	sigma.Logger = log

	eng, err := engine.New(engine.Config{
		MasterSecret: []byte("demo-authority-master-secret"),
		Issuer:       "sigma-demo-authority",
		Predicate:    policy.RequireAttributes("department", "admission_year"),
	})
	if err != nil {
		log.WithError(err).Fatal("engine construction failed")
	}

	// Holder side: a key pair whose secret never leaves this function.
	keyPair, err := eng.GenerateKeyPair()
	if err != nil {
		log.WithError(err).Fatal("key generation failed")
	}
	defer keyPair.Zero()
	log.WithField("public_key_bits", keyPair.Public.BitLen()).Info("holder key pair generated")

	// Issuer side: bind the public key to certified attributes.
	attrs := sigma.Attributes{
		{Name: "department", Value: "Computer Science"},
		{Name: "admission_year", Value: "2024"},
	}
	cred, err := eng.IssueCredential("student-042", attrs, keyPair.Public)
	if err != nil {
		log.WithError(err).Fatal("credential issuance failed")
	}
	log.WithField("valid", eng.ValidateCredential(cred)).Info("credential validated")

	// Relying-party side: challenge, prove, decide.
	challenge, err := eng.RequestChallenge("student-042")
	if err != nil {
		log.WithError(err).Fatal("challenge request failed")
	}

	prover := sigma.NewProver(eng.Params(), keyPair.Secret)
	proof, err := prover.Prove(challenge.Challenge)
	if err != nil {
		log.WithError(err).Fatal("proof construction failed")
	}

	verdict, err := eng.VerifyAndDecide(challenge.SessionID, "student-042", proof)
	if err != nil {
		log.WithError(err).Fatal("verification failed")
	}
	log.WithFields(logrus.Fields{
		"eligible": verdict.Eligible,
		"decision": verdict.Decision,
		"reasons":  verdict.Reasons,
	}).Info("decision reached")

	// Replaying the identical proof against the consumed session must fail.
	if _, err := eng.VerifyAndDecide(challenge.SessionID, "student-042", proof); err != nil {
		log.WithError(err).Info("replay attempt refused, as it must be")
	} else {
		log.Error("replay attempt was accepted")
		os.Exit(1)
	}

	// A single flipped attribute bit must invalidate the credential.
	tampered := *cred
	tampered.Attributes = sigma.Attributes{
		{Name: "department", Value: "Computer Sciences"},
		{Name: "admission_year", Value: "2024"},
	}
	log.WithField("valid", eng.ValidateCredential(&tampered)).Info("tampered credential validated")
}
