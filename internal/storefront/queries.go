package storefront

// Fixed GraphQL documents sent to the commerce backend. The schemas are
// owned by the backend; these strings mirror what it exposes.

const productFields = `
id
title
handle
productType
tags
description
descriptionHtml
priceRange {
  minVariantPrice { amount currencyCode }
  maxVariantPrice { amount currencyCode }
}
variants(first: 20) {
  edges {
    node {
      id
      title
      sku
      availableForSale
      price { amount currencyCode }
    }
  }
}
images(first: 10) {
  edges {
    node { url altText width height }
  }
}
metafields(identifiers: [
  {namespace: "visa", key: "country"},
  {namespace: "visa", key: "flag"},
  {namespace: "visa", key: "category"},
  {namespace: "visa", key: "duration"},
  {namespace: "visa", key: "entry_type"},
  {namespace: "visa", key: "processing_time"},
  {namespace: "visa", key: "child_price"},
  {namespace: "visa", key: "features"},
  {namespace: "visa", key: "requirements"},
  {namespace: "visa", key: "important_notes"}
]) {
  namespace
  key
  value
  type
}`

const listProductsQuery = `
query ListProducts($first: Int!, $after: String, $query: String) {
  products(first: $first, after: $after, query: $query) {
    pageInfo { hasNextPage endCursor }
    edges {
      node {` + productFields + `}
    }
  }
}`

const productByHandleQuery = `
query ProductByHandle($handle: String!) {
  product(handle: $handle) {` + productFields + `}
}`

const customerCreateMutation = `
mutation CustomerCreate($input: CustomerCreateInput!) {
  customerCreate(input: $input) {
    customer { id email firstName lastName }
    customerUserErrors { field message }
  }
}`

const accessTokenCreateMutation = `
mutation AccessTokenCreate($input: CustomerAccessTokenCreateInput!) {
  customerAccessTokenCreate(input: $input) {
    customerAccessToken { accessToken expiresAt }
    customerUserErrors { field message }
  }
}`

const accessTokenDeleteMutation = `
mutation AccessTokenDelete($customerAccessToken: String!) {
  customerAccessTokenDelete(customerAccessToken: $customerAccessToken) {
    deletedAccessToken
    userErrors { field message }
  }
}`

const customerQuery = `
query Customer($customerAccessToken: String!) {
  customer(customerAccessToken: $customerAccessToken) {
    id
    email
    firstName
    lastName
    phone
  }
}`

const customerOrdersQuery = `
query CustomerOrders($customerAccessToken: String!, $first: Int!) {
  customer(customerAccessToken: $customerAccessToken) {
    orders(first: $first, sortKey: PROCESSED_AT, reverse: true) {
      edges {
        node {
          id
          orderNumber
          processedAt
          financialStatus
          fulfillmentStatus
          totalPrice { amount currencyCode }
          lineItems(first: 20) {
            edges {
              node {
                title
                quantity
                variant { title price { amount currencyCode } }
              }
            }
          }
        }
      }
    }
  }
}`

const checkoutCreateMutation = `
mutation CheckoutCreate($input: CheckoutCreateInput!) {
  checkoutCreate(input: $input) {
    checkout { id webUrl }
    checkoutUserErrors { field message }
  }
}`
